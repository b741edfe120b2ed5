package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/interface/api/rest/dto/user"
	"socialmedia-api/internal/interface/api/rest/middleware"
	"socialmedia-api/internal/interface/api/rest/validator"
)

type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
	auth ports.Authenticator,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	r.POST(RouteUsers, uc.CreateUserHandler)
	r.GET(RouteUser, middleware.OptionalAuth(auth), uc.GetUserHandler)
	r.PUT(RouteUserAvatar, middleware.AuthMiddleware(auth), uc.SetAvatarHandler)
	r.DELETE(RouteUser, middleware.AuthMiddleware(auth), uc.DeleteUserHandler)

	return uc
}

func (uc *UserController) GetUserHandler(c *gin.Context) {
	ok, id := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return
	}

	u, err := uc.userService.FindUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, uc.logger, "FindUserByID", "failed to get a user", err)
		return
	}
	if u == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "user not found"},
		)
		return
	}

	if viewer, ok := middleware.UserID(c); ok && viewer == u.UUID {
		c.JSON(http.StatusOK, user.ToResponseUser(*u))
		return
	}
	c.JSON(http.StatusOK, user.ToPublicUser(*u))
}

func (uc *UserController) CreateUserHandler(c *gin.Context) {
	var req user.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if errs := validator.ValidateRegister(req); errs != nil {
		badRequest(c, errs)
		return
	}

	u, err := uc.userService.CreateUser(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respondError(c, uc.logger, "CreateUser", "failed to create a user", err)
		return
	}

	c.JSON(http.StatusCreated, user.ToResponseUser(*u))
}

func (uc *UserController) SetAvatarHandler(c *gin.Context) {
	id, ok := uc.self(c)
	if !ok {
		return
	}

	var req user.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	avatar, err := uuid.Parse(req.MediaID)
	if err != nil {
		badRequest(c, gin.H{"media_id": "media_id must be a valid UUID"})
		return
	}

	u, err := uc.userService.SetAvatar(c.Request.Context(), id, avatar)
	if err != nil {
		respondError(c, uc.logger, "SetAvatar", "failed to set avatar", err)
		return
	}
	if u == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "user not found"},
		)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) DeleteUserHandler(c *gin.Context) {
	id, ok := uc.self(c)
	if !ok {
		return
	}

	if err := uc.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, uc.logger, "DeleteUser", "failed to delete user", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// self parses :user_id and checks that the caller is that user.
func (uc *UserController) self(c *gin.Context) (uuid.UUID, bool) {
	ok, id := validator.IsUUID(c.Param("user_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "user_id must be a valid UUID"},
		)
		return uuid.Nil, false
	}

	caller, ok := middleware.UserID(c)
	if !ok || caller != id {
		respondError(c, uc.logger, "", "", errForbidden)
		return uuid.Nil, false
	}

	return id, true
}
