package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/media"
	domain "socialmedia-api/internal/domain/post"
	"socialmedia-api/internal/interface/api/rest/dto/post"
	"socialmedia-api/internal/interface/api/rest/middleware"
	"socialmedia-api/internal/interface/api/rest/validator"
)

type PostController struct {
	postService ports.PostService
	logger      *zap.Logger
}

func NewPostController(
	r *gin.Engine,
	postService ports.PostService,
	logger *zap.Logger,
	auth ports.Authenticator,
) *PostController {
	pc := &PostController{
		postService: postService,
		logger:      logger,
	}

	r.POST(RoutePosts, middleware.AuthMiddleware(auth), pc.CreatePostHandler)
	r.GET(RoutePost, middleware.OptionalAuth(auth), pc.GetPostHandler)
	r.PATCH(RoutePost, middleware.AuthMiddleware(auth), pc.UpdateVisibilityHandler)
	r.DELETE(RoutePost, middleware.AuthMiddleware(auth), pc.DeletePostHandler)
	r.GET(RouteUserPosts, middleware.OptionalAuth(auth), pc.ListUserPostsHandler)

	return pc
}

func (pc *PostController) CreatePostHandler(c *gin.Context) {
	author, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var req post.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	np, errs := post.ToDomainNewPost(req)
	if errs != nil {
		badRequest(c, errs)
		return
	}

	p, err := pc.postService.CreatePost(c.Request.Context(), author, np)
	if err != nil {
		respondError(c, pc.logger, "CreatePost", "failed to create a post", err)
		return
	}

	c.JSON(http.StatusCreated, post.ToResponsePost(*p))
}

func (pc *PostController) GetPostHandler(c *gin.Context) {
	ok, id := validator.IsUUID(c.Param("post_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "post_id must be a valid UUID"},
		)
		return
	}

	p, err := pc.postService.FindPostByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, pc.logger, "FindPostByID", "failed to get a post", err)
		return
	}

	// private posts do not reveal that they exist
	viewer, ok := middleware.UserID(c)
	if p.Visibility != media.VisibilityPublic && (!ok || viewer != p.Author) {
		respondError(c, pc.logger, "", "", domain.ErrPostNotFound)
		return
	}

	c.JSON(http.StatusOK, post.ToResponsePost(*p))
}

func (pc *PostController) UpdateVisibilityHandler(c *gin.Context) {
	author, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	ok, id := validator.IsUUID(c.Param("post_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "post_id must be a valid UUID"},
		)
		return
	}

	var req post.VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := pc.postService.UpdateVisibility(c.Request.Context(), id, author, media.Visibility(req.Visibility))
	if err != nil {
		respondError(c, pc.logger, "UpdateVisibility", "failed to update a post", err)
		return
	}

	c.JSON(http.StatusOK, post.ToResponsePost(*p))
}

func (pc *PostController) ListUserPostsHandler(c *gin.Context) {
	ok, author := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return
	}

	var q post.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}

	var viewer *uuid.UUID
	if id, ok := middleware.UserID(c); ok {
		viewer = &id
	}

	ps, err := pc.postService.FetchPostsByAuthor(c.Request.Context(), author, viewer, post.ToDomainListQuery(q))
	if err != nil {
		respondError(c, pc.logger, "FetchPostsByAuthor", "failed to list posts", err)
		return
	}

	c.JSON(http.StatusOK, post.ToResponsePosts(ps))
}

func (pc *PostController) DeletePostHandler(c *gin.Context) {
	author, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	ok, id := validator.IsUUID(c.Param("post_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "post_id must be a valid UUID"},
		)
		return
	}

	// someone else's post looks the same as a missing one
	if err := pc.postService.DeletePost(c.Request.Context(), id, author); err != nil {
		respondError(c, pc.logger, "DeletePost", "failed to delete a post", err)
		return
	}

	c.Status(http.StatusNoContent)
}
