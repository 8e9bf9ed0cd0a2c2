package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"advisorycms/internal/delivery/http/helpers"
	"advisorycms/internal/delivery/http/middleware"
	"advisorycms/internal/domain"
)

// CreatePostRequest is the request body for POST /api/posts.
type CreatePostRequest struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Summary  string `json:"summary"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

// Validate implements Validator.
func (c CreatePostRequest) Validate() []string {
	if c.Title == "" {
		return []string{"title is required"}
	}
	return nil
}

// UpdatePostRequest is the request body for PATCH /api/posts/{postID}.
// All fields optional; omitted fields are unchanged.
type UpdatePostRequest struct {
	Title    *string `json:"title"`
	Summary  *string `json:"summary"`
	Body     *string `json:"body"`
	Category *string `json:"category"`
}

// Validate implements Validator.
func (u UpdatePostRequest) Validate() []string {
	if u.Title != nil && *u.Title == "" {
		return []string{"title cannot be empty"}
	}
	return nil
}

// PostSuccessResponse is the success envelope for endpoints returning a single post.
type PostSuccessResponse struct {
	Data  *domain.Post      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListPostsResponse is the data payload for GET /api/posts.
type ListPostsResponse struct {
	Items      []*domain.Post         `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListPostsSuccessResponse is the success envelope for GET /api/posts (200).
type ListPostsSuccessResponse struct {
	Data  ListPostsResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type PostController struct {
	Logger  *slog.Logger
	Service domain.PostService
}

func NewPostController(logger *slog.Logger, svc domain.PostService) *PostController {
	return &PostController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *PostController) writePostError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "post not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateSlug):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// CreatePost godoc
// @Summary Create a post
// @Description Create a new post in draft status. The authenticated user becomes the author. Slug is derived from the title when omitted.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePostRequest true "Post data"
// @Success 201 {object} controllers.PostSuccessResponse "data contains the created post"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slug taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /posts [post]
func (c *PostController) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	post := &domain.Post{
		Title:    req.Title,
		Slug:     req.Slug,
		Summary:  req.Summary,
		Body:     req.Body,
		Category: req.Category,
	}
	if err := c.Service.CreatePost(r.Context(), post, userID); err != nil {
		c.writePostError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, post)
}

// GetPostBySlug godoc
// @Summary Get a post by slug
// @Description Public read path; bumps the post view counter.
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} controllers.PostSuccessResponse "data contains the post"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /posts/slug/{slug} [get]
func (c *PostController) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	post, err := c.Service.GetPostBySlug(r.Context(), slug)
	if err != nil {
		c.writePostError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, post)
}

// ListPosts godoc
// @Summary List published posts
// @Description Returns a paginated list of published posts, newest first, optionally filtered by category.
// @Tags posts
// @Produce json
// @Param category query string false "Filter by category"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListPostsSuccessResponse "data contains items and pagination"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /posts [get]
func (c *PostController) ListPosts(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	posts, total, err := c.Service.ListPublishedPosts(r.Context(), r.URL.Query().Get("category"), params)
	if err != nil {
		c.writePostError(w, r, err)
		return
	}
	if posts == nil {
		posts = []*domain.Post{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListPostsResponse{Items: posts, Pagination: meta})
}

// UpdatePost godoc
// @Summary Update a post
// @Description Partially updates a post. Only the author can update.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Param body body UpdatePostRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.PostSuccessResponse "data contains the updated post"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not author)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /posts/{postID} [patch]
func (c *PostController) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("postID")
	if postID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing postID")
		return
	}
	var req UpdatePostRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	patch := &domain.PostPatch{
		Title:    req.Title,
		Summary:  req.Summary,
		Body:     req.Body,
		Category: req.Category,
	}
	post, err := c.Service.UpdatePost(r.Context(), postID, patch, userID)
	if err != nil {
		c.writePostError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, post)
}

// PublishPost godoc
// @Summary Publish a post
// @Description Moves a draft post to published and stamps the publication time. Idempotent for already-published posts. Only the author can publish.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Success 200 {object} controllers.PostSuccessResponse "data contains the published post"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not author)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /posts/{postID}/publish [post]
func (c *PostController) PublishPost(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("postID")
	if postID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing postID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	post, err := c.Service.PublishPost(r.Context(), postID, userID)
	if err != nil {
		c.writePostError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, post)
}

// DeletePostResponse is the data payload for DELETE /api/posts/{postID} (200).
type DeletePostResponse struct {
	Status string `json:"status"`
}

// DeletePost godoc
// @Summary Delete a post
// @Description Deletes a post. Only the author can delete.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not author)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /posts/{postID} [delete]
func (c *PostController) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("postID")
	if postID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing postID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeletePost(r.Context(), postID, userID); err != nil {
		c.writePostError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeletePostResponse{Status: "deleted"})
}
