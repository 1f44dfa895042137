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

const userColumns = `id, email, password_hash, subscription, avatar_url, verification_token, verified, session_token, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Subscription, &u.AvatarURL,
		&u.VerificationToken, &u.Verify, &u.Token, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	if u.Subscription == "" {
		u.Subscription = entity.SubscriptionStarter
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, subscription, avatar_url, verification_token, verified, session_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Subscription, u.AvatarURL, u.VerificationToken, u.Verify, u.Token)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByVerificationToken(token string) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE verification_token = $1 AND verification_token <> ''
	`, token)
	return scanUser(row)
}

func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, subscription = $3, avatar_url = $4,
		    verification_token = $5, verified = $6, session_token = $7, updated_at = $8
		WHERE id = $9
	`, u.Email, u.Password, u.Subscription, u.AvatarURL,
		u.VerificationToken, u.Verify, u.Token, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
