package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"advisorycms/internal/domain"
)

const postColumns = `id, title, slug, status, summary, body, category, views,
	author_id, published_at, created_at, updated_at`

type postRepository struct {
	DB *sql.DB
}

func NewPostRepository(db *sql.DB) domain.PostRepository {
	return &postRepository{
		DB: db,
	}
}

func scanPost(row rowScanner) (*domain.Post, error) {
	post := &domain.Post{}
	var publishedAt sql.NullTime
	err := row.Scan(
		&post.ID, &post.Title, &post.Slug, &post.Status, &post.Summary,
		&post.Body, &post.Category, &post.Views, &post.AuthorID,
		&publishedAt, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if publishedAt.Valid {
		post.PublishedAt = &publishedAt.Time
	}
	return post, nil
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (title, slug, status, summary, body, category, views,
			author_id, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		post.Title, post.Slug, post.Status, post.Summary, post.Body,
		post.Category, post.Views, post.AuthorID, nullTime(post.PublishedAt),
		post.CreatedAt, post.UpdatedAt,
	).Scan(&post.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return scanPost(r.DB.QueryRowContext(ctx, query, id))
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`
	return scanPost(r.DB.QueryRowContext(ctx, query, slug))
}

func (r *postRepository) ListPublished(ctx context.Context, category string, params domain.PaginationParams) ([]*domain.Post, int, error) {
	where := `WHERE status = 'published'`
	args := []any{}
	if category != "" {
		where += ` AND category = $1`
		args = append(args, category)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM posts ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM posts %s ORDER BY published_at DESC LIMIT $%d OFFSET $%d`,
		postColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts SET title = $1, slug = $2, status = $3, summary = $4,
			body = $5, category = $6, published_at = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := r.DB.ExecContext(ctx, query,
		post.Title, post.Slug, post.Status, post.Summary, post.Body,
		post.Category, nullTime(post.PublishedAt), post.UpdatedAt, post.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	return err
}
