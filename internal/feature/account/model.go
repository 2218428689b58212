package account

import (
	"time"

	"bloglist/internal/domain"
)

type AccountModel struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Username     string `gorm:"uniqueIndex;size:191;not null"`
	Name         string `gorm:"size:128"`
	PasswordHash string `gorm:"size:100;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AccountModel) TableName() string { return "accounts" }

// AccountPostModel 是账号 -> 帖子的归属链接，只在建/删帖事务里写
type AccountPostModel struct {
	PostID    string `gorm:"primaryKey;type:varchar(36)"`
	AccountID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_account_posts_owner_seq,priority:1"`
	Seq       int64  `gorm:"not null;uniqueIndex:idx_account_posts_owner_seq,priority:2"`
}

func (AccountPostModel) TableName() string { return "account_posts" }

func FromDomain(a *domain.Account) AccountModel {
	return AccountModel{ID: a.ID, Username: a.Username, Name: a.Name, PasswordHash: a.PasswordHash}
}

func (m AccountModel) ToDomain(postIDs []string) *domain.Account {
	if postIDs == nil {
		postIDs = []string{}
	}
	return &domain.Account{
		ID:           m.ID,
		Username:     m.Username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		PostIDs:      postIDs,
	}
}

func (m AccountModel) Owner() *domain.Owner {
	return &domain.Owner{ID: m.ID, Username: m.Username, Name: m.Name}
}
