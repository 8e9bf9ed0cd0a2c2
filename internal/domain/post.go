package domain

import (
	"context"
	"time"
)

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post is a blog-style content entry (blog posts, case studies, knowledge-base
// articles all share this shape).
// swagger:model Post
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Status      PostStatus `json:"status"`
	Summary     string     `json:"summary,omitempty"`
	Body        string     `json:"body,omitempty"`
	Category    string     `json:"category,omitempty"`
	Views       int64      `json:"views"`
	AuthorID    string     `json:"author_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PostPatch is a partial update; only non-nil fields overwrite stored values.
type PostPatch struct {
	Title    *string
	Summary  *string
	Body     *string
	Category *string
}

// PostRepository defines storage operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	ListPublished(ctx context.Context, category string, params PaginationParams) ([]*Post, int, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

// PostService defines content operations for posts.
type PostService interface {
	CreatePost(ctx context.Context, post *Post, authorID string) error
	// GetPostBySlug is the public read path; it bumps the view counter.
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	ListPublishedPosts(ctx context.Context, category string, params PaginationParams) ([]*Post, int, error)
	UpdatePost(ctx context.Context, postID string, patch *PostPatch, userID string) (*Post, error)
	PublishPost(ctx context.Context, postID, userID string) (*Post, error)
	DeletePost(ctx context.Context, postID, userID string) error
}
