package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bloglist/internal/core/cache"
	"bloglist/internal/core/metrics"
	"bloglist/internal/domain"
	"bloglist/internal/stats"
)

const (
	listCacheNS  = "posts"
	listCacheKey = "posts:all"
)

// PostStore 是帖子仓储，外加统计用的原始读取
type PostStore interface {
	domain.PostRepository
	Posts(ctx context.Context) ([]domain.Post, error)
}

type PostService struct {
	repo     PostStore
	cache    *cache.Cache // 可为 nil
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewPostService(repo PostStore, c *cache.Cache, ttl time.Duration, log *zap.Logger) *PostService {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &PostService{repo: repo, cache: c, cacheTTL: ttl, log: log}
}

func (s *PostService) List(ctx context.Context) ([]domain.PostView, error) {
	key := listCacheKey
	if s.cache != nil {
		key = s.cache.VersionedKey(ctx, listCacheNS, listCacheKey)
	}
	out, err := cache.GetOrLoadJSON(s.cache, ctx, key, s.cacheTTL, func(ctx context.Context) (*[]domain.PostView, error) {
		v, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return []domain.PostView{}, nil
	}
	return *out, nil
}

func (s *PostService) Create(ctx context.Context, draft domain.PostDraft, owner *domain.Account) (*domain.PostView, error) {
	v, err := s.repo.Create(ctx, draft, owner)
	s.afterWrite(ctx, "create", err)
	if err != nil {
		return nil, err
	}
	s.log.Info("post created", zap.String("post_id", v.ID), zap.String("owner_id", owner.ID))
	return v, nil
}

func (s *PostService) Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.PostView, error) {
	v, err := s.repo.Update(ctx, id, patch)
	s.afterWrite(ctx, "update", err)
	return v, err
}

func (s *PostService) Delete(ctx context.Context, id, requesterID string) error {
	err := s.repo.Delete(ctx, id, requesterID)
	s.afterWrite(ctx, "delete", err)
	if err == nil {
		s.log.Info("post deleted", zap.String("post_id", id), zap.String("owner_id", requesterID))
	}
	return err
}

func (s *PostService) Stats(ctx context.Context) (stats.Summary, error) {
	posts, err := s.repo.Posts(ctx)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(posts), nil
}

// afterWrite 记录指标；成功写入后让列表缓存换代
func (s *PostService) afterWrite(ctx context.Context, op string, err error) {
	metrics.ObservePostOp(op, err)
	if err == nil {
		s.invalidate(ctx)
	}
}

func (s *PostService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if e := s.cache.Bump(ctx, listCacheNS); e != nil {
		s.log.Warn("invalidate post list cache failed", zap.Error(e))
	}
}
