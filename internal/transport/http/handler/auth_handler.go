package handler

import (
	"github.com/gin-gonic/gin"

	"bloglist/internal/service"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthHandler struct{ svc *service.AuthService }

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context, in *LoginRequest) (*service.LoginResult, error) {
	return h.svc.Login(c.Request.Context(), in.Username, in.Password)
}
