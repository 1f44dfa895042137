package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dpalamar/contacts-api/internal/application"
	"github.com/dpalamar/contacts-api/internal/interface/middleware"
	"github.com/dpalamar/contacts-api/pkg/response"
	"github.com/dpalamar/contacts-api/pkg/validation"
)

// ContactHandler translates contact HTTP requests into ContactService
// calls. Every route runs behind the Auth middleware, so the owner is
// always the authenticated caller.
type ContactHandler struct {
	Svc    *application.ContactService
	Logger *logrus.Logger
}

func NewContactHandler(svc *application.ContactService, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Svc: svc, Logger: logger}
}

type createContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

type updateContactRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Favorite *bool   `json:"favorite"`
}

type favoriteRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// List GET /api/contacts?page=&limit=
func (h *ContactHandler) List(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	contacts, err := h.Svc.List(c.Request.Context(), owner, page, limit)
	if err != nil {
		h.Logger.WithError(err).WithField("owner", owner).Error("list contacts failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list contacts", nil)
		return
	}
	response.Success(c, http.StatusOK, contacts, "contacts", gin.H{"page": page, "limit": limit})
}

// Get GET /api/contacts/:contactId
func (h *ContactHandler) Get(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)
	id := c.Param("contactId")

	contact, err := h.Svc.Get(c.Request.Context(), owner, id)
	if err != nil {
		if errors.Is(err, application.ErrContactNotFound) {
			response.Error[any](c, http.StatusNotFound, "Not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("contact_id", id).Error("get contact failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to get contact", nil)
		return
	}
	response.Success(c, http.StatusOK, contact, "contact", nil)
}

// Create POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)

	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing required name field", validation.ToDetails(err))
		return
	}

	contact, err := h.Svc.Create(c.Request.Context(), owner, req.Name, req.Email, req.Phone)
	if err != nil {
		h.Logger.WithError(err).WithField("owner", owner).Error("create contact failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create contact", nil)
		return
	}
	response.Success(c, http.StatusCreated, contact, "contact created", nil)
}

// Update PATCH /api/contacts/:contactId
func (h *ContactHandler) Update(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)
	id := c.Param("contactId")

	var req updateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing fields", validation.ToDetails(err))
		return
	}

	contact, err := h.Svc.Update(c.Request.Context(), owner, id, application.UpdateContactInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Favorite: req.Favorite,
	})
	if err != nil {
		if errors.Is(err, application.ErrContactNotFound) {
			response.Error[any](c, http.StatusNotFound, "Not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("contact_id", id).Error("update contact failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update contact", nil)
		return
	}
	response.Success(c, http.StatusOK, contact, "contact updated", nil)
}

// UpdateFavorite PATCH /api/contacts/:contactId/favorite
func (h *ContactHandler) UpdateFavorite(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)
	id := c.Param("contactId")

	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Favorite == nil {
		response.Error[any](c, http.StatusBadRequest, "missing field favorite", nil)
		return
	}

	contact, err := h.Svc.UpdateFavorite(c.Request.Context(), owner, id, *req.Favorite)
	if err != nil {
		if errors.Is(err, application.ErrContactNotFound) {
			response.Error[any](c, http.StatusNotFound, "Not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("contact_id", id).Error("update favorite failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update contact", nil)
		return
	}
	response.Success(c, http.StatusOK, contact, "contact updated", nil)
}

// Delete DELETE /api/contacts/:contactId
func (h *ContactHandler) Delete(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)
	id := c.Param("contactId")

	if err := h.Svc.Delete(c.Request.Context(), owner, id); err != nil {
		if errors.Is(err, application.ErrContactNotFound) {
			response.Error[any](c, http.StatusNotFound, "Not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("contact_id", id).Error("delete contact failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to delete contact", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "contact deleted", nil)
}

// Search GET /api/contacts/search?q=&limit=
func (h *ContactHandler) Search(c *gin.Context) {
	owner := c.GetString(middleware.CtxUserIDKey)
	q := c.Query("q")
	limit := queryInt(c, "limit", 10)

	hits, err := h.Svc.Search(c.Request.Context(), owner, q, limit)
	if err != nil {
		h.Logger.WithError(err).WithField("owner", owner).Error("contact search failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to search contacts", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}
