package domain

import (
	"context"
	"strings"
	"unicode/utf8"

	"bloglist/internal/core/apperr"
)

const (
	MinUsernameLen = 3
	MinPasswordLen = 3
)

type Account struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"-"`
	PostIDs      []string `json:"-"` // 仅由 PostRepository 在建/删帖时维护
}

// AccountView 是对外的账号视图，附带其名下帖子的精简投影
type AccountView struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	Name     string        `json:"name"`
	Posts    []PostSummary `json:"posts"`
}

// Signup 是注册请求经校验后的结果
type Signup struct {
	Username string
	Name     string
	Password string
}

// NewSignup 校验注册字段，通过后才能进入哈希与落库
func NewSignup(username, name, password string) (Signup, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return Signup{}, apperr.Validation("username is required")
	case utf8.RuneCountInString(username) < MinUsernameLen:
		return Signup{}, apperr.Validation("username must be at least 3 characters long")
	case password == "":
		return Signup{}, apperr.Validation("password is required")
	case utf8.RuneCountInString(password) < MinPasswordLen:
		return Signup{}, apperr.Validation("password must be at least 3 characters long")
	}
	return Signup{Username: username, Name: strings.TrimSpace(name), Password: password}, nil
}

type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	List(ctx context.Context) ([]AccountView, error)
}
