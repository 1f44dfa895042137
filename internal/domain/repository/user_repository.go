package repository

import "github.com/dpalamar/contacts-api/internal/domain/entity"

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByVerificationToken(token string) (*entity.User, error)
	Update(u *entity.User) error
}
