package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"bloglist/internal/core/apperr"
	"bloglist/internal/core/metrics"
	"bloglist/internal/domain"
	"bloglist/pkg/utils"
)

const msgBadCredentials = "invalid username or password"

// AccountService 管理账号与凭证校验
type AccountService struct {
	repo domain.AccountRepository
	log  *zap.Logger
}

func NewAccountService(repo domain.AccountRepository, log *zap.Logger) *AccountService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{repo: repo, log: log}
}

func (s *AccountService) CreateAccount(ctx context.Context, username, name, password string) (a *domain.Account, err error) {
	defer func() { metrics.ObserveSignup(err) }()

	in, err := domain.NewSignup(username, name, password)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		s.log.Error("hash password failed", zap.Error(err))
		return nil, err
	}
	a = &domain.Account{
		ID:           utils.NewID(),
		Username:     in.Username,
		Name:         in.Name,
		PasswordHash: hash,
		PostIDs:      []string{},
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if apperr.KindOf(err) == apperr.KindUnhandled {
			s.log.Error("create account failed", zap.String("username", in.Username), zap.Error(err))
		}
		return nil, err
	}
	s.log.Info("account created", zap.String("account_id", a.ID), zap.String("username", a.Username))
	return a, nil
}

// VerifyCredentials 用户不存在与密码错误返回同一个错误。
// 用户不存在时也跑一次 bcrypt，避免按耗时枚举用户名。
func (s *AccountService) VerifyCredentials(ctx context.Context, username, password string) (*domain.Account, error) {
	a, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("find account failed", zap.Error(err))
		return nil, err
	}
	if a == nil {
		_ = utils.CheckPassword(password, dummyHash())
		s.log.Info("login attempt with unknown username", zap.String("username", username))
		return nil, apperr.Authentication(msgBadCredentials)
	}
	if !utils.CheckPassword(password, a.PasswordHash) {
		s.log.Info("login attempt with wrong password", zap.String("username", username))
		return nil, apperr.Authentication(msgBadCredentials)
	}
	return a, nil
}

// Resolve 把 token 中的账号 id 解析为账号；账号已不存在视为认证失败
func (s *AccountService) Resolve(ctx context.Context, id string) (*domain.Account, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("resolve account failed", zap.String("account_id", id), zap.Error(err))
		return nil, err
	}
	if a == nil {
		return nil, apperr.Authentication("account not found")
	}
	return a, nil
}

func (s *AccountService) List(ctx context.Context) ([]domain.AccountView, error) {
	return s.repo.List(ctx)
}

var (
	dummyOnce sync.Once
	dummy     string
)

func dummyHash() string {
	dummyOnce.Do(func() {
		dummy, _ = utils.HashPassword("timing-equalizer")
	})
	return dummy
}
