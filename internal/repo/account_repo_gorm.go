package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bloglist/internal/core/apperr"
	"bloglist/internal/core/database"
	"bloglist/internal/domain"
	"bloglist/internal/feature/account"
	"bloglist/internal/feature/post"
)

type AccountRepo struct{ db *gorm.DB }

func NewAccountRepo(db *gorm.DB) *AccountRepo { return &AccountRepo{db: db} }

var _ domain.AccountRepository = (*AccountRepo)(nil)

func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	m := account.FromDomain(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.DuplicateKey("username must be unique")
		}
		return fmt.Errorf("create account: %w", err)
	}
	if a.PostIDs == nil {
		a.PostIDs = []string{}
	}
	return nil
}

// FindByID 查不到返回 (nil, nil)
func (r *AccountRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *AccountRepo) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *AccountRepo) findOne(ctx context.Context, cond string, arg string) (*domain.Account, error) {
	db := r.db.WithContext(ctx)
	var m account.AccountModel
	err := db.First(&m, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	ids, err := ownedPostIDs(db, m.ID)
	if err != nil {
		return nil, err
	}
	return m.ToDomain(ids), nil
}

// List 返回全部账号，posts 按归属链接顺序展开
func (r *AccountRepo) List(ctx context.Context) ([]domain.AccountView, error) {
	db := r.db.WithContext(ctx)

	var accounts []account.AccountModel
	if err := db.Order("created_at asc, id asc").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]domain.AccountView, 0, len(accounts))
	if len(accounts) == 0 {
		return out, nil
	}

	var links []account.AccountPostModel
	if err := db.Order("seq asc, post_id asc").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list account posts: %w", err)
	}
	postIDs := make([]string, 0, len(links))
	for _, l := range links {
		postIDs = append(postIDs, l.PostID)
	}
	byID := map[string]post.PostModel{}
	if len(postIDs) > 0 {
		var posts []post.PostModel
		if err := db.Where("id IN ?", postIDs).Find(&posts).Error; err != nil {
			return nil, fmt.Errorf("list owned posts: %w", err)
		}
		for _, p := range posts {
			byID[p.ID] = p
		}
	}
	owned := map[string][]domain.PostSummary{}
	for _, l := range links {
		if p, ok := byID[l.PostID]; ok {
			owned[l.AccountID] = append(owned[l.AccountID], p.ToDomain().Summary())
		}
	}

	for _, a := range accounts {
		posts := owned[a.ID]
		if posts == nil {
			posts = []domain.PostSummary{}
		}
		out = append(out, domain.AccountView{ID: a.ID, Username: a.Username, Name: a.Name, Posts: posts})
	}
	return out, nil
}

func ownedPostIDs(db *gorm.DB, accountID string) ([]string, error) {
	var ids []string
	err := db.Model(&account.AccountPostModel{}).
		Where("account_id = ?", accountID).
		Order("seq asc, post_id asc").
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load owned posts: %w", err)
	}
	return ids, nil
}
