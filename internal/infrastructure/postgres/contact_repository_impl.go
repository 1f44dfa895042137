package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dpalamar/contacts-api/internal/domain/entity"
	"github.com/dpalamar/contacts-api/internal/domain/repository"
)

const contactColumns = `id, name, email, phone, favorite, owner, created_at, updated_at`

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	c := &entity.Contact{}
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Favorite, &c.Owner,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ContactRepository) Create(c *entity.Contact) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contacts (name, email, phone, favorite, owner)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Email, c.Phone, c.Favorite, c.Owner)

	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ContactRepository) GetByID(id, owner string) (*entity.Contact, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = $1 AND owner = $2
	`, id, owner)
	return scanContact(row)
}

func (r *ContactRepository) List(owner string, limit, offset int) ([]entity.Contact, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE owner = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`, owner, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Contact, 0, limit)
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Favorite, &c.Owner,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepository) Update(c *entity.Contact) error {
	ctx := context.Background()
	c.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE contacts
		SET name = $1, email = $2, phone = $3, favorite = $4, updated_at = $5
		WHERE id = $6 AND owner = $7
	`, c.Name, c.Email, c.Phone, c.Favorite, c.UpdatedAt, c.ID, c.Owner)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *ContactRepository) Delete(id, owner string) error {
	res, err := r.pool.Exec(context.Background(), `
		DELETE FROM contacts
		WHERE id = $1 AND owner = $2
	`, id, owner)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
