package handler

import (
	"github.com/gin-gonic/gin"

	"bloglist/internal/service"
)

type TestingHandler struct{ svc *service.ResetService }

func NewTestingHandler(svc *service.ResetService) *TestingHandler {
	return &TestingHandler{svc: svc}
}

// Reset POST /api/testing/reset
func (h *TestingHandler) Reset(c *gin.Context, _ *struct{}) (struct{}, error) {
	return struct{}{}, h.svc.Reset(c.Request.Context())
}
