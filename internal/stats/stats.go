// Package stats 提供对帖子集合的纯函数统计，全部单次遍历 O(n)。
package stats

import "bloglist/internal/domain"

type AuthorCount struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

type Summary struct {
	Posts        int          `json:"posts"`
	TotalLikes   int          `json:"totalLikes"`
	FavoriteBlog *domain.Post `json:"favoriteBlog"`
	MostBlogs    *AuthorCount `json:"mostBlogs"`
	MostLikes    *AuthorLikes `json:"mostLikes"`
}

func TotalLikes(posts []domain.Post) int {
	total := 0
	for _, p := range posts {
		total += p.Likes
	}
	return total
}

// FavoriteBlog 返回 likes 最多的帖子；并列取输入顺序中第一个
func FavoriteBlog(posts []domain.Post) *domain.Post {
	if len(posts) == 0 {
		return nil
	}
	fav := posts[0]
	for _, p := range posts[1:] {
		if p.Likes > fav.Likes {
			fav = p
		}
	}
	return &fav
}

// MostBlogs 按 author 计数；并列取最先达到最大值的作者
func MostBlogs(posts []domain.Post) *AuthorCount {
	if len(posts) == 0 {
		return nil
	}
	author, best := leader(posts, func(domain.Post) int { return 1 })
	return &AuthorCount{Author: author, Blogs: best}
}

// MostLikes 按 author 汇总 likes；并列规则同 MostBlogs
func MostLikes(posts []domain.Post) *AuthorLikes {
	if len(posts) == 0 {
		return nil
	}
	author, best := leader(posts, func(p domain.Post) int { return p.Likes })
	return &AuthorLikes{Author: author, Likes: best}
}

func Summarize(posts []domain.Post) Summary {
	return Summary{
		Posts:        len(posts),
		TotalLikes:   TotalLikes(posts),
		FavoriteBlog: FavoriteBlog(posts),
		MostBlogs:    MostBlogs(posts),
		MostLikes:    MostLikes(posts),
	}
}

// leader 边累加边记录领先者，只有严格超过当前最大值才换人。
// 非空输入时 best 至少是第一个作者的累计值。
func leader(posts []domain.Post, weight func(domain.Post) int) (string, int) {
	acc := make(map[string]int, len(posts))
	author, best := posts[0].Author, -1
	for _, p := range posts {
		acc[p.Author] += weight(p)
		if v := acc[p.Author]; v > best {
			author, best = p.Author, v
		}
	}
	return author, best
}
