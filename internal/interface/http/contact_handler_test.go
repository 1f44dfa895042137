package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpalamar/contacts-api/internal/domain/entity"
)

func createContact(t *testing.T, api *testAPI, token, name string) entity.Contact {
	t.Helper()

	w, env := api.do(t, http.MethodPost, "/api/contacts", token, gin.H{
		"name":  name,
		"email": "contact@example.com",
		"phone": "(992) 914-3792",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var c entity.Contact
	require.NoError(t, json.Unmarshal(env.Data, &c))
	require.NotEmpty(t, c.ID)
	return c
}

func TestContacts_RequireToken(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/contacts"},
		{http.MethodPost, "/api/contacts"},
		{http.MethodGet, "/api/contacts/some-id"},
		{http.MethodPatch, "/api/contacts/some-id"},
		{http.MethodDelete, "/api/contacts/some-id"},
		{http.MethodPatch, "/api/contacts/some-id/favorite"},
	} {
		w, env := api.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Not authorized", env.Message)
	}
}

func TestContacts_RejectTamperedToken(t *testing.T) {
	api := newTestAPI(t)
	token := api.loginToken(t, "alice@example.com", "password1")

	w, env := api.do(t, http.MethodGet, "/api/contacts", token+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized", env.Message)
}

func TestContacts_CreateAndGet(t *testing.T) {
	api := newTestAPI(t)
	token := api.loginToken(t, "alice@example.com", "password1")

	created := createContact(t, api, token, "Allen Raymond")
	assert.False(t, created.Favorite)

	w, env := api.do(t, http.MethodGet, "/api/contacts/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got entity.Contact
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Allen Raymond", got.Name)
	assert.Equal(t, "contact@example.com", got.Email)
}

func TestContacts_Create_MissingFields(t *testing.T) {
	api := newTestAPI(t)
	token := api.loginToken(t, "alice@example.com", "password1")

	w, env := api.do(t, http.MethodPost, "/api/contacts", token, gin.H{
		"email": "contact@example.com",
		"phone": "(992) 914-3792",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing required name field", env.Message)
}

func TestContacts_List_Pagination(t *testing.T) {
	api := newTestAPI(t)
	token := api.loginToken(t, "alice@example.com", "password1")

	for i := 0; i < 12; i++ {
		createContact(t, api, token, fmt.Sprintf("Contact %02d", i))
	}

	w, env := api.do(t, http.MethodGet, "/api/contacts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page []entity.Contact
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page, 10)

	w, env = api.do(t, http.MethodGet, "/api/contacts?page=2&limit=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page, 2)
}

func TestContacts_Update(t *testing.T) {
	api := newTestAPI(t)
	token := api.loginToken(t, "alice@example.com", "password1")
	created := createContact(t, api, token, "Allen Raymond")

	w, env := api.do(t, http.MethodPatch, "/api/contacts/"+created.ID, token, gin.H{
		"phone": "(870) 288-4046",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated entity.Contact
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "(870) 288-4046", updated.Phone)
	// untouched fields survive a partial update
	assert.Equal(t, "Allen Raymond", updated.Name)
	assert.Equal(t, "contact@example.com", updated.Email)
}

func TestContacts_Update_NotFound(t *testing.T) {
	api := newTestAPI(t)
	token := api.loginToken(t, "alice@example.com", "password1")

	w, env := api.do(t, http.MethodPatch, "/api/contacts/no-such-id", token, gin.H{"name": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", env.Message)
}

func TestContacts_Favorite(t *testing.T) {
	api := newTestAPI(t)
	token := api.loginToken(t, "alice@example.com", "password1")
	created := createContact(t, api, token, "Allen Raymond")

	w, env := api.do(t, http.MethodPatch, "/api/contacts/"+created.ID+"/favorite", token, gin.H{"favorite": true})
	require.Equal(t, http.StatusOK, w.Code)

	var updated entity.Contact
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.True(t, updated.Favorite)

	// explicit false is a valid value, not a missing field
	w, env = api.do(t, http.MethodPatch, "/api/contacts/"+created.ID+"/favorite", token, gin.H{"favorite": false})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.False(t, updated.Favorite)
}

func TestContacts_Favorite_MissingField(t *testing.T) {
	api := newTestAPI(t)
	token := api.loginToken(t, "alice@example.com", "password1")
	created := createContact(t, api, token, "Allen Raymond")

	w, env := api.do(t, http.MethodPatch, "/api/contacts/"+created.ID+"/favorite", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing field favorite", env.Message)
}

func TestContacts_Delete(t *testing.T) {
	api := newTestAPI(t)
	token := api.loginToken(t, "alice@example.com", "password1")
	created := createContact(t, api, token, "Allen Raymond")

	w, env := api.do(t, http.MethodDelete, "/api/contacts/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "contact deleted", env.Message)

	w, env = api.do(t, http.MethodGet, "/api/contacts/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// deleting the same contact twice reports not found
	w, env = api.do(t, http.MethodDelete, "/api/contacts/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", env.Message)
}

func TestContacts_OwnershipIsolation(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.loginToken(t, "alice@example.com", "password1")
	bobToken := api.loginToken(t, "bob@example.com", "password2")

	created := createContact(t, api, aliceToken, "Allen Raymond")

	// Bob cannot see, change, or delete Alice's contact
	w, _ := api.do(t, http.MethodGet, "/api/contacts/"+created.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = api.do(t, http.MethodPatch, "/api/contacts/"+created.ID, bobToken, gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = api.do(t, http.MethodDelete, "/api/contacts/"+created.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := api.do(t, http.MethodGet, "/api/contacts", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bobContacts []entity.Contact
	if len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, &bobContacts))
	}
	assert.Empty(t, bobContacts)

	// Alice's contact is untouched
	w, env = api.do(t, http.MethodGet, "/api/contacts/"+created.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got entity.Contact
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Allen Raymond", got.Name)
}

func TestContacts_Search_NoIndex(t *testing.T) {
	api := newTestAPI(t)
	token := api.loginToken(t, "alice@example.com", "password1")

	w, env := api.do(t, http.MethodGet, "/api/contacts/search?q=allen", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var hits []map[string]any
	if len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, &hits))
	}
	assert.Empty(t, hits)
}
