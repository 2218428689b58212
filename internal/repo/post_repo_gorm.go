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
	"bloglist/pkg/utils"
)

// 同一 owner 并发创建时 seq 冲突的重试上限
const maxSeqAttempts = 3

var errSeqTaken = errors.New("owner post sequence taken")

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

var _ domain.PostRepository = (*PostRepo)(nil)

// ListAll 两次查询：先帖子，再按 owner_id IN (...) 取账号投影并合并
func (r *PostRepo) ListAll(ctx context.Context) ([]domain.PostView, error) {
	db := r.db.WithContext(ctx)
	var posts []post.PostModel
	if err := db.Order("created_at asc, id asc").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return joinOwners(db, posts)
}

// Posts 返回不带 owner 的原始帖子，供统计使用
func (r *PostRepo) Posts(ctx context.Context) ([]domain.Post, error) {
	var posts []post.PostModel
	if err := r.db.WithContext(ctx).Order("created_at asc, id asc").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ToDomain())
	}
	return out, nil
}

// Create 帖子写入与 owner 链接追加在同一事务内，任一失败整体回滚
func (r *PostRepo) Create(ctx context.Context, draft domain.PostDraft, owner *domain.Account) (*domain.PostView, error) {
	if owner == nil || owner.ID == "" {
		return nil, apperr.Authentication("account not found")
	}
	p, err := domain.NewPost(draft, owner.ID)
	if err != nil {
		return nil, err
	}
	p.ID = utils.NewID()
	m := post.FromDomain(p)

	var ownerRow account.AccountModel
	for attempt := 1; ; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return insertOwned(tx, &m, owner.ID, &ownerRow)
		})
		if !errors.Is(err, errSeqTaken) || attempt >= maxSeqAttempts {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	owner.PostIDs = append(owner.PostIDs, m.ID)
	return &domain.PostView{Post: m.ToDomain(), User: ownerRow.Owner()}, nil
}

// insertOwned 写帖子并按 MAX(seq)+1 追加 owner 链接；并发下 seq 冲突由唯一索引拦截
func insertOwned(tx *gorm.DB, m *post.PostModel, ownerID string, ownerRow *account.AccountModel) error {
	if err := tx.First(ownerRow, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Authentication("account not found")
		}
		return fmt.Errorf("find owner: %w", err)
	}
	if err := tx.Create(m).Error; err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	var last int64
	if err := tx.Model(&account.AccountPostModel{}).
		Where("account_id = ?", ownerID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&last).Error; err != nil {
		return fmt.Errorf("next owner seq: %w", err)
	}
	link := account.AccountPostModel{PostID: m.ID, AccountID: ownerID, Seq: last + 1}
	if err := tx.Create(&link).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return errSeqTaken
		}
		return fmt.Errorf("append owner link: %w", err)
	}
	return nil
}

// Update 只写请求中出现的字段；不校验归属（与 Delete 不对称，保持现状）
func (r *PostRepo) Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.PostView, error) {
	if !utils.IsID(id) {
		return nil, apperr.MalformedID()
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)

	// 单条 UPDATE ... WHERE id，未出现的列不参与写入
	if changes := patch.Changes(); len(changes) > 0 {
		if err := db.Model(&post.PostModel{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("update post: %w", err)
		}
	}

	// MySQL 对未变化的行 RowsAffected 为 0，存在性以回读为准
	var m post.PostModel
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	views, err := joinOwners(db, []post.PostModel{m})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete 仅 owner 可删；帖子与 owner 链接同事务删除
func (r *PostRepo) Delete(ctx context.Context, id, requesterID string) error {
	if !utils.IsID(id) {
		return apperr.MalformedID()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m post.PostModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("post not found")
			}
			return fmt.Errorf("find post: %w", err)
		}
		if m.OwnerID != requesterID {
			return apperr.Forbidden("only the creator can delete this post")
		}
		res := tx.Delete(&post.PostModel{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("post not found")
		}
		if err := tx.Delete(&account.AccountPostModel{}, "post_id = ?", id).Error; err != nil {
			return fmt.Errorf("remove owner link: %w", err)
		}
		return nil
	})
}

func joinOwners(db *gorm.DB, posts []post.PostModel) ([]domain.PostView, error) {
	out := make([]domain.PostView, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}
	seen := map[string]struct{}{}
	ownerIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.OwnerID]; !ok {
			seen[p.OwnerID] = struct{}{}
			ownerIDs = append(ownerIDs, p.OwnerID)
		}
	}
	var owners []account.AccountModel
	if err := db.Select("id", "username", "name").Where("id IN ?", ownerIDs).Find(&owners).Error; err != nil {
		return nil, fmt.Errorf("join owners: %w", err)
	}
	byID := make(map[string]*domain.Owner, len(owners))
	for _, o := range owners {
		byID[o.ID] = o.Owner()
	}
	for _, p := range posts {
		out = append(out, domain.PostView{Post: p.ToDomain(), User: byID[p.OwnerID]})
	}
	return out, nil
}
