package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"advisorycms/internal/domain"
)

type postService struct {
	postRepo       domain.PostRepository
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewPostService creates a PostService with the given repository.
func NewPostService(postRepo domain.PostRepository, logger *slog.Logger, timeout time.Duration) domain.PostService {
	return &postService{
		postRepo:       postRepo,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *postService) CreatePost(ctx context.Context, post *domain.Post, authorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if authorID == "" {
		return fmt.Errorf("author is required: %w", domain.ErrInvalidInput)
	}
	if post.Title == "" {
		return fmt.Errorf("post title is required: %w", domain.ErrInvalidInput)
	}
	if post.Status == "" {
		post.Status = domain.PostStatusDraft
	}
	if !post.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", post.Status, domain.ErrInvalidInput)
	}

	slug := post.Slug
	explicit := slug != ""
	if !explicit {
		slug = slugify(post.Title)
	}
	if slug == "" {
		return fmt.Errorf("cannot derive slug from title: %w", domain.ErrInvalidInput)
	}
	if _, err := s.postRepo.GetBySlug(ctx, slug); err == nil {
		if explicit {
			return domain.ErrDuplicateSlug
		}
		suffix, err := generateCode(slugSuffixLength)
		if err != nil {
			return fmt.Errorf("generate slug suffix: %w", err)
		}
		slug = slug + "-" + strings.ToLower(suffix)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check slug: %w", err)
	}
	post.Slug = slug

	post.AuthorID = authorID
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Status == domain.PostStatusPublished {
		published := post.CreatedAt
		post.PublishedAt = &published
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (s *postService) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	if err := s.postRepo.IncrementViews(ctx, post.ID); err != nil {
		s.logger.Warn("increment post views", "post_id", post.ID, "err", err)
	} else {
		post.Views++
	}
	return post, nil
}

func (s *postService) ListPublishedPosts(ctx context.Context, category string, params domain.PaginationParams) ([]*domain.Post, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	posts, total, err := s.postRepo.ListPublished(ctx, category, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []*domain.Post{}
	}
	return posts, total, nil
}

func (s *postService) UpdatePost(ctx context.Context, postID string, patch *domain.PostPatch, userID string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post.AuthorID != userID {
		return nil, domain.ErrForbidden
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Summary != nil {
		post.Summary = *patch.Summary
	}
	if patch.Body != nil {
		post.Body = *patch.Body
	}
	if patch.Category != nil {
		post.Category = *patch.Category
	}
	post.UpdatedAt = time.Now()
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

func (s *postService) PublishPost(ctx context.Context, postID, userID string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post.AuthorID != userID {
		return nil, domain.ErrForbidden
	}
	if post.Status == domain.PostStatusPublished {
		return post, nil
	}

	now := time.Now()
	post.Status = domain.PostStatusPublished
	post.PublishedAt = &now
	post.UpdatedAt = now
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, postID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get post: %w", err)
	}
	if post.AuthorID != userID {
		return domain.ErrForbidden
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
