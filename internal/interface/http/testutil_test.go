package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/dpalamar/contacts-api/config"
	"github.com/dpalamar/contacts-api/internal/application"
	"github.com/dpalamar/contacts-api/internal/domain/entity"
	"github.com/dpalamar/contacts-api/internal/domain/repository"
	"github.com/dpalamar/contacts-api/internal/interface/middleware"
	"github.com/dpalamar/contacts-api/pkg/avatar"
	"github.com/dpalamar/contacts-api/pkg/helpers"
	"github.com/dpalamar/contacts-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

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

// testAPI wires the handlers onto a Gin engine the same way the router
// modules do, minus the Redis rate limiters.
type testAPI struct {
	router *gin.Engine
	users  *fakeUserRepo
	auth   *application.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	users := newFakeUserRepo()
	contacts := newFakeContactRepo()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		BaseURL:     "http://localhost:8080",
		AvatarsDir:  t.TempDir(),
		AvatarsPath: "/avatars",
	}
	jwtManager := helpers.NewJWTManager("test-secret", time.Hour)

	authSvc := application.NewAuthService(users, jwtManager, avatar.NewProcessor(cfg.AvatarsDir, avatar.DefaultSize), nil, "", nil, logger, cfg)
	contactSvc := application.NewContactService(contacts, logger, nil, "")

	ah := NewAuthHandler(authSvc, logger)
	ch := NewContactHandler(contactSvc, logger)

	r := gin.New()
	api := r.Group("/api")

	api.POST("/auth/register", ah.Register)
	api.POST("/auth/login", ah.Login)
	api.GET("/auth/verify/:token", ah.Verify)
	api.POST("/auth/verify", ah.ResendVerification)

	authGroup := api.Group("/auth", middleware.Auth(users, jwtManager))
	authGroup.GET("/current", ah.Current)
	authGroup.GET("/logout", ah.Logout)
	authGroup.PATCH("/avatars", ah.UpdateAvatar)

	contactGroup := api.Group("/contacts", middleware.Auth(users, jwtManager))
	contactGroup.GET("", ch.List)
	contactGroup.GET("/search", ch.Search)
	contactGroup.GET("/:contactId", ch.Get)
	contactGroup.POST("", ch.Create)
	contactGroup.DELETE("/:contactId", ch.Delete)
	contactGroup.PATCH("/:contactId", ch.Update)
	contactGroup.PATCH("/:contactId/favorite", ch.UpdateFavorite)

	return &testAPI{router: r, users: users, auth: authSvc}
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func (a *testAPI) doMultipart(t *testing.T, method, path, token, field, filename string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

// registerVerified creates a verified account and returns its user ID.
func (a *testAPI) registerVerified(t *testing.T, email, password string) string {
	t.Helper()

	w, _ := a.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, w.Code)

	u, err := a.users.GetByEmail(email)
	require.NoError(t, err)

	w, _ = a.do(t, http.MethodGet, "/api/auth/verify/"+u.VerificationToken, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	return u.ID
}

// loginToken registers, verifies, and logs the user in, returning the
// session token.
func (a *testAPI) loginToken(t *testing.T, email, password string) string {
	t.Helper()

	a.registerVerified(t, email, password)

	w, env := a.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}
