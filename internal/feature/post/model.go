package post

import (
	"time"

	"bloglist/internal/domain"
)

type PostModel struct {
	ID      string `gorm:"primaryKey;type:varchar(36)"`
	Title   string `gorm:"size:255;not null"`
	Author  string `gorm:"size:255"`
	URL     string `gorm:"column:url;size:2048;not null"`
	Likes   int    `gorm:"not null"`
	OwnerID string `gorm:"type:varchar(36);not null;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (PostModel) TableName() string { return "posts" }

func FromDomain(p domain.Post) PostModel {
	return PostModel{ID: p.ID, Title: p.Title, Author: p.Author, URL: p.URL, Likes: p.Likes, OwnerID: p.OwnerID}
}

func (m PostModel) ToDomain() domain.Post {
	return domain.Post{ID: m.ID, Title: m.Title, Author: m.Author, URL: m.URL, Likes: m.Likes, OwnerID: m.OwnerID}
}
