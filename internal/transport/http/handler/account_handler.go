package handler

import (
	"github.com/gin-gonic/gin"

	"bloglist/internal/domain"
	"bloglist/internal/service"
)

type SignupRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AccountHandler struct{ svc *service.AccountService }

func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// List GET /api/accounts
func (h *AccountHandler) List(c *gin.Context, _ *struct{}) ([]domain.AccountView, error) {
	return h.svc.List(c.Request.Context())
}

// Create POST /api/accounts，新账号还没有帖子
func (h *AccountHandler) Create(c *gin.Context, in *SignupRequest) (*domain.AccountView, error) {
	a, err := h.svc.CreateAccount(c.Request.Context(), in.Username, in.Name, in.Password)
	if err != nil {
		return nil, err
	}
	return &domain.AccountView{ID: a.ID, Username: a.Username, Name: a.Name, Posts: []domain.PostSummary{}}, nil
}
