package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloglist/internal/repo"
)

// ResetService 清空全部数据，只在 app.env=test 时挂载
type ResetService struct {
	db    *gorm.DB
	posts *PostService
	log   *zap.Logger
}

func NewResetService(db *gorm.DB, posts *PostService, log *zap.Logger) *ResetService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResetService{db: db, posts: posts, log: log}
}

func (s *ResetService) Reset(ctx context.Context) error {
	if err := repo.Reset(s.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("reset tables: %w", err)
	}
	if s.posts != nil {
		s.posts.invalidate(ctx)
	}
	s.log.Warn("all tables wiped")
	return nil
}
