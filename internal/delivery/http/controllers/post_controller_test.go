package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisorycms/internal/delivery/http/middleware"
	"advisorycms/internal/domain"
)

// fakePostService implements domain.PostService for handler tests.
type fakePostService struct {
	createErr     error
	getBySlugErr  error
	getBySlugPost *domain.Post
	listErr       error
	listResult    []*domain.Post
	listTotal     int
	updateErr     error
	updateResult  *domain.Post
	publishErr    error
	publishResult *domain.Post
	deleteErr     error

	lastCreatePost     *domain.Post
	lastCreateAuthorID string
	lastListCategory   string
	lastUpdatePostID   string
	lastUpdatePatch    *domain.PostPatch
	lastUpdateUserID   string
	lastPublishPostID  string
	lastPublishUserID  string
	lastDeletePostID   string
	lastDeleteUserID   string
}

func (f *fakePostService) CreatePost(ctx context.Context, post *domain.Post, authorID string) error {
	f.lastCreatePost = post
	f.lastCreateAuthorID = authorID
	if f.createErr != nil {
		return f.createErr
	}
	post.ID = "post-created"
	post.AuthorID = authorID
	if post.Status == "" {
		post.Status = domain.PostStatusDraft
	}
	return nil
}

func (f *fakePostService) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	if f.getBySlugErr != nil {
		return nil, f.getBySlugErr
	}
	if f.getBySlugPost != nil {
		return f.getBySlugPost, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePostService) ListPublishedPosts(ctx context.Context, category string, params domain.PaginationParams) ([]*domain.Post, int, error) {
	f.lastListCategory = category
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listResult, f.listTotal, nil
}

func (f *fakePostService) UpdatePost(ctx context.Context, postID string, patch *domain.PostPatch, userID string) (*domain.Post, error) {
	f.lastUpdatePostID = postID
	f.lastUpdatePatch = patch
	f.lastUpdateUserID = userID
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateResult != nil {
		return f.updateResult, nil
	}
	return &domain.Post{ID: postID}, nil
}

func (f *fakePostService) PublishPost(ctx context.Context, postID, userID string) (*domain.Post, error) {
	f.lastPublishPostID = postID
	f.lastPublishUserID = userID
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	if f.publishResult != nil {
		return f.publishResult, nil
	}
	return &domain.Post{ID: postID, Status: domain.PostStatusPublished}, nil
}

func (f *fakePostService) DeletePost(ctx context.Context, postID, userID string) error {
	f.lastDeletePostID = postID
	f.lastDeleteUserID = userID
	return f.deleteErr
}

func TestPostController_CreatePost(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		noUserContext  bool
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{name: "success", body: `{"title":"Quarterly Insights","category":"insights"}`, wantStatus: http.StatusCreated},
		{name: "missing title", body: `{"category":"insights"}`, wantStatus: http.StatusBadRequest, wantBodySubstr: "title is required"},
		{name: "no user in context", body: `{"title":"X"}`, noUserContext: true, wantStatus: http.StatusUnauthorized, wantBodySubstr: "unauthorized"},
		{name: "slug taken", body: `{"title":"X","slug":"taken"}`, fakeErr: domain.ErrDuplicateSlug, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePostService{createErr: tt.fakeErr}
			ctrl := NewPostController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUser(req.Context(), "user-123", domain.RoleEditor))
			}
			rr := httptest.NewRecorder()

			ctrl.CreatePost(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusCreated {
				var post domain.Post
				decodeData(t, envelope, &post)
				assert.Equal(t, "post-created", post.ID)
				assert.Equal(t, "user-123", post.AuthorID)
				assert.Equal(t, "user-123", fake.lastCreateAuthorID)
				return
			}
			require.NotNil(t, envelope.Error)
			if tt.wantBodySubstr != "" {
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
			}
		})
	}
}

func TestPostController_GetPostBySlug(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakePostService{getBySlugPost: &domain.Post{ID: "post-1", Slug: "quarterly-insights"}}
		ctrl := NewPostController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "http://test/api/posts/slug/quarterly-insights", nil)
		req.SetPathValue("slug", "quarterly-insights")
		rr := httptest.NewRecorder()

		ctrl.GetPostBySlug(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var post domain.Post
		decodeData(t, decodeEnvelope(t, rr), &post)
		assert.Equal(t, "quarterly-insights", post.Slug)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := NewPostController(testLogger, &fakePostService{})
		req := httptest.NewRequest(http.MethodGet, "http://test/api/posts/slug/missing", nil)
		req.SetPathValue("slug", "missing")
		rr := httptest.NewRecorder()

		ctrl.GetPostBySlug(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestPostController_ListPosts(t *testing.T) {
	fake := &fakePostService{
		listResult: []*domain.Post{{ID: "post-1"}, {ID: "post-2"}},
		listTotal:  2,
	}
	ctrl := NewPostController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/api/posts?category=insights", nil)
	rr := httptest.NewRecorder()

	ctrl.ListPosts(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var data ListPostsResponse
	decodeData(t, decodeEnvelope(t, rr), &data)
	require.Len(t, data.Items, 2)
	assert.Equal(t, 2, data.Pagination.Total)
	assert.Equal(t, "insights", fake.lastListCategory)
}

func TestPostController_UpdatePost(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakePostService{}
		ctrl := NewPostController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPatch, "http://test/api/posts/post-1", bytes.NewBufferString(`{"title":"Renamed"}`))
		req.Header.Set("Content-Type", "application/json")
		req.SetPathValue("postID", "post-1")
		req = req.WithContext(middleware.SetUser(req.Context(), "user-123", domain.RoleEditor))
		rr := httptest.NewRecorder()

		ctrl.UpdatePost(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "post-1", fake.lastUpdatePostID)
		require.NotNil(t, fake.lastUpdatePatch.Title)
		assert.Equal(t, "Renamed", *fake.lastUpdatePatch.Title)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		ctrl := NewPostController(testLogger, &fakePostService{})
		req := httptest.NewRequest(http.MethodPatch, "http://test/api/posts/post-1", bytes.NewBufferString(`{"title":""}`))
		req.Header.Set("Content-Type", "application/json")
		req.SetPathValue("postID", "post-1")
		req = req.WithContext(middleware.SetUser(req.Context(), "user-123", domain.RoleEditor))
		rr := httptest.NewRecorder()

		ctrl.UpdatePost(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("not the author", func(t *testing.T) {
		ctrl := NewPostController(testLogger, &fakePostService{updateErr: domain.ErrForbidden})
		req := httptest.NewRequest(http.MethodPatch, "http://test/api/posts/post-1", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.SetPathValue("postID", "post-1")
		req = req.WithContext(middleware.SetUser(req.Context(), "someone-else", domain.RoleMember))
		rr := httptest.NewRecorder()

		ctrl.UpdatePost(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestPostController_PublishPost(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakePostService{}
		ctrl := NewPostController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "http://test/api/posts/post-1/publish", nil)
		req.SetPathValue("postID", "post-1")
		req = req.WithContext(middleware.SetUser(req.Context(), "user-123", domain.RoleEditor))
		rr := httptest.NewRecorder()

		ctrl.PublishPost(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var post domain.Post
		decodeData(t, decodeEnvelope(t, rr), &post)
		assert.Equal(t, domain.PostStatusPublished, post.Status)
		assert.Equal(t, "post-1", fake.lastPublishPostID)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := NewPostController(testLogger, &fakePostService{publishErr: domain.ErrNotFound})
		req := httptest.NewRequest(http.MethodPost, "http://test/api/posts/post-missing/publish", nil)
		req.SetPathValue("postID", "post-missing")
		req = req.WithContext(middleware.SetUser(req.Context(), "user-123", domain.RoleEditor))
		rr := httptest.NewRecorder()

		ctrl.PublishPost(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestPostController_DeletePost(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakePostService{}
		ctrl := NewPostController(testLogger, fake)
		req := httptest.NewRequest(http.MethodDelete, "http://test/api/posts/post-1", nil)
		req.SetPathValue("postID", "post-1")
		req = req.WithContext(middleware.SetUser(req.Context(), "user-123", domain.RoleEditor))
		rr := httptest.NewRecorder()

		ctrl.DeletePost(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var data DeletePostResponse
		decodeData(t, decodeEnvelope(t, rr), &data)
		assert.Equal(t, "deleted", data.Status)
		assert.Equal(t, "post-1", fake.lastDeletePostID)
	})

	t.Run("not the author", func(t *testing.T) {
		ctrl := NewPostController(testLogger, &fakePostService{deleteErr: domain.ErrForbidden})
		req := httptest.NewRequest(http.MethodDelete, "http://test/api/posts/post-1", nil)
		req.SetPathValue("postID", "post-1")
		req = req.WithContext(middleware.SetUser(req.Context(), "someone-else", domain.RoleMember))
		rr := httptest.NewRecorder()

		ctrl.DeletePost(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}
