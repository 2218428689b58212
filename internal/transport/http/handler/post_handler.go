package handler

import (
	"github.com/gin-gonic/gin"

	"bloglist/internal/core/apperr"
	"bloglist/internal/domain"
	"bloglist/internal/service"
	"bloglist/internal/stats"
	mdw "bloglist/internal/transport/http/middleware"
)

type PostHandler struct{ svc *service.PostService }

func NewPostHandler(svc *service.PostService) *PostHandler { return &PostHandler{svc: svc} }

// List GET /api/posts
func (h *PostHandler) List(c *gin.Context, _ *struct{}) ([]domain.PostView, error) {
	return h.svc.List(c.Request.Context())
}

// Create POST /api/posts（需 AccountResolver）
func (h *PostHandler) Create(c *gin.Context, in *domain.PostDraft) (*domain.PostView, error) {
	a, ok := mdw.CurrentAccount(c)
	if !ok {
		return nil, apperr.MissingToken()
	}
	return h.svc.Create(c.Request.Context(), *in, a)
}

// Update PUT /api/posts/:id
func (h *PostHandler) Update(c *gin.Context, in *domain.PostPatch) (*domain.PostView, error) {
	return h.svc.Update(c.Request.Context(), c.Param("id"), *in)
}

// Delete DELETE /api/posts/:id，只有创建者可删
func (h *PostHandler) Delete(c *gin.Context, _ *struct{}) (struct{}, error) {
	a, ok := mdw.CurrentAccount(c)
	if !ok {
		return struct{}{}, apperr.MissingToken()
	}
	return struct{}{}, h.svc.Delete(c.Request.Context(), c.Param("id"), a.ID)
}

// Stats GET /api/stats
func (h *PostHandler) Stats(c *gin.Context, _ *struct{}) (stats.Summary, error) {
	return h.svc.Stats(c.Request.Context())
}
