package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/dpalamar/contacts-api/internal/domain/entity"
	repo "github.com/dpalamar/contacts-api/internal/domain/repository"
)

var ErrContactNotFound = errors.New("contact not found")

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ContactService implements owner-scoped CRUD over the contact repository,
// with an optional Elasticsearch index for free-text search.
type ContactService struct {
	Repo    repo.ContactRepository
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewContactService(r repo.ContactRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ContactService {
	return &ContactService{Repo: r, Logger: logger, ES: es, ESIndex: esIndex}
}

// List returns the caller's contacts, paginated. Page and limit fall back
// to 1/10; limit is capped.
func (s *ContactService) List(ctx context.Context, owner string, page, limit int) ([]entity.Contact, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.Repo.List(owner, limit, (page-1)*limit)
}

func (s *ContactService) Get(ctx context.Context, owner, id string) (*entity.Contact, error) {
	c, err := s.Repo.GetByID(id, owner)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return c, nil
}

// Create stores a new contact owned by the caller.
func (s *ContactService) Create(ctx context.Context, owner, name, email, phone string) (*entity.Contact, error) {
	c := &entity.Contact{
		Name:  name,
		Email: email,
		Phone: phone,
		Owner: owner,
	}
	if err := s.Repo.Create(c); err != nil {
		return nil, err
	}
	s.indexContact(ctx, c)
	return c, nil
}

// UpdateContactInput carries the optional fields of a partial update;
// nil fields are left untouched.
type UpdateContactInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Favorite *bool
}

// Update merges the provided fields into the contact.
func (s *ContactService) Update(ctx context.Context, owner, id string, in UpdateContactInput) (*entity.Contact, error) {
	c, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Favorite != nil {
		c.Favorite = *in.Favorite
	}
	if err := s.Repo.Update(c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	s.indexContact(ctx, c)
	return c, nil
}

// UpdateFavorite flips the favorite flag on a contact.
func (s *ContactService) UpdateFavorite(ctx context.Context, owner, id string, favorite bool) (*entity.Contact, error) {
	return s.Update(ctx, owner, id, UpdateContactInput{Favorite: &favorite})
}

func (s *ContactService) Delete(ctx context.Context, owner, id string) error {
	if err := s.Repo.Delete(id, owner); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrContactNotFound
		}
		return err
	}
	s.removeFromIndex(ctx, id)
	return nil
}

func (s *ContactService) indexContact(ctx context.Context, c *entity.Contact) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"email":      c.Email,
		"phone":      c.Phone,
		"favorite":   c.Favorite,
		"owner":      c.Owner,
		"updated_at": c.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: c.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	esCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(esCtx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("contact_id", c.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("contact_id", c.ID).Warn("es index response error")
	}
}

func (s *ContactService) removeFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	esCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(esCtx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("contact_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a free-text search over the caller's contacts. Returns
// an empty result when the search index is not configured.
func (s *ContactService) Search(ctx context.Context, owner, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"name^2", "email", "phone"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"owner": owner},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	esCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(esCtx),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
