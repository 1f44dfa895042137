package repository

import "github.com/dpalamar/contacts-api/internal/domain/entity"

// ContactRepository defines the interface for contact-related database
// operations. Lookups and mutations are scoped to the owning user; a
// contact owned by someone else behaves as if it does not exist.
type ContactRepository interface {
	Create(c *entity.Contact) error
	GetByID(id, owner string) (*entity.Contact, error)
	List(owner string, limit, offset int) ([]entity.Contact, error)
	Update(c *entity.Contact) error
	Delete(id, owner string) error
}
