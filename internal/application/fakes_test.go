package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/dpalamar/contacts-api/internal/domain/entity"
	"github.com/dpalamar/contacts-api/internal/domain/repository"
)

// in-memory repositories backing the service tests

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]entity.User{}}
}

func (f *fakeUserRepo) Create(u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	if u.Subscription == "" {
		u.Subscription = entity.SubscriptionStarter
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByVerificationToken(token string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token == "" {
		return nil, repository.ErrNotFound
	}
	for _, u := range f.users {
		if u.VerificationToken == token {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	f.users[u.ID] = *u
	return nil
}

type fakeContactRepo struct {
	mu       sync.Mutex
	seq      int
	order    []string
	contacts map[string]entity.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: map[string]entity.Contact{}}
}

func (f *fakeContactRepo) Create(c *entity.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = fmt.Sprintf("contact-%d", f.seq)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.contacts[c.ID] = *c
	f.order = append(f.order, c.ID)
	return nil
}

func (f *fakeContactRepo) GetByID(id, owner string) (*entity.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contacts[id]; ok && c.Owner == owner {
		cp := c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeContactRepo) List(owner string, limit, offset int) ([]entity.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owned := make([]entity.Contact, 0)
	for _, id := range f.order {
		if c, ok := f.contacts[id]; ok && c.Owner == owner {
			owned = append(owned, c)
		}
	}
	if offset >= len(owned) {
		return []entity.Contact{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

func (f *fakeContactRepo) Update(c *entity.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if old, ok := f.contacts[c.ID]; !ok || old.Owner != c.Owner {
		return repository.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	f.contacts[c.ID] = *c
	return nil
}

func (f *fakeContactRepo) Delete(id, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contacts[id]; !ok || c.Owner != owner {
		return repository.ErrNotFound
	}
	delete(f.contacts, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

var (
	_ repository.UserRepository    = (*fakeUserRepo)(nil)
	_ repository.ContactRepository = (*fakeContactRepo)(nil)
)
