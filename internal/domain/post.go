package domain

import (
	"context"
	"strings"

	"bloglist/internal/core/apperr"
)

type Post struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	URL     string `json:"url"`
	Likes   int    `json:"likes"`
	OwnerID string `json:"-"`
}

// Owner 是帖子上展示的最小账号投影
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// PostView = Post + 已 join 的 owner
type PostView struct {
	Post
	User *Owner `json:"user"`
}

// PostSummary 是账号列表里展示的帖子投影
type PostSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

// PostDraft 是创建请求体；Likes 为 nil 表示未提供
type PostDraft struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

// PostPatch 只携带请求中出现的字段
type PostPatch struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	URL    *string `json:"url"`
	Likes  *int    `json:"likes"`
}

// NewPost 校验草稿并构造待持久化的帖子（ID 由仓储分配）
func NewPost(d PostDraft, ownerID string) (Post, error) {
	title, url := strings.TrimSpace(d.Title), strings.TrimSpace(d.URL)
	if title == "" || url == "" {
		return Post{}, apperr.Validation("title and url are required")
	}
	likes := 0
	if d.Likes != nil {
		if *d.Likes < 0 {
			return Post{}, apperr.Validation("likes must be non-negative")
		}
		likes = *d.Likes
	}
	return Post{Title: title, Author: strings.TrimSpace(d.Author), URL: url, Likes: likes, OwnerID: ownerID}, nil
}

// Validate 检查出现的字段是否合法
func (p PostPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return apperr.Validation("title must not be empty")
	}
	if p.URL != nil && strings.TrimSpace(*p.URL) == "" {
		return apperr.Validation("url must not be empty")
	}
	if p.Likes != nil && *p.Likes < 0 {
		return apperr.Validation("likes must be non-negative")
	}
	return nil
}

// Changes 返回出现字段的规范化取值，键与 JSON 字段名一致；owner 不可改
func (p PostPatch) Changes() map[string]any {
	out := make(map[string]any, 4)
	if p.Title != nil {
		out["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		out["author"] = *p.Author
	}
	if p.URL != nil {
		out["url"] = strings.TrimSpace(*p.URL)
	}
	if p.Likes != nil {
		out["likes"] = *p.Likes
	}
	return out
}

func (p Post) Summary() PostSummary {
	return PostSummary{ID: p.ID, Title: p.Title, Author: p.Author, URL: p.URL, Likes: p.Likes}
}

type PostRepository interface {
	ListAll(ctx context.Context) ([]PostView, error)
	Create(ctx context.Context, draft PostDraft, owner *Account) (*PostView, error)
	Update(ctx context.Context, id string, patch PostPatch) (*PostView, error)
	Delete(ctx context.Context, id, requesterID string) error
}
