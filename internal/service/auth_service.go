package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"bloglist/internal/core/apperr"
	"bloglist/internal/core/auth"
	"bloglist/internal/core/metrics"
)

type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type AuthService struct {
	accounts *AccountService
	jwter    *auth.JWTer
	log      *zap.Logger
}

func NewAuthService(accounts *AccountService, jwter *auth.JWTer, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{accounts: accounts, jwter: jwter, log: log}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (res *LoginResult, err error) {
	defer func() { metrics.ObserveLogin(err) }()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}
	a, err := s.accounts.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	tok, err := s.jwter.Issue(a.ID, a.Username)
	if err != nil {
		s.log.Error("issue token failed", zap.String("account_id", a.ID), zap.Error(err))
		return nil, err
	}
	s.log.Info("account logged in", zap.String("account_id", a.ID))
	return &LoginResult{Token: tok, Username: a.Username, Name: a.Name}, nil
}
