package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialmedia-api/internal/application/ports"
	domain "socialmedia-api/internal/domain/user"
	"socialmedia-api/internal/interface/api/rest/dto/auth"
	"socialmedia-api/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger      *zap.Logger
	userService ports.UserService
	authService ports.Auth
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	userService ports.UserService,
	authService ports.Auth,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		userService: userService,
		authService: authService,
	}

	r.POST(RouteLogin, ac.LoginHandler)

	return ac
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.ValidateLogin(req); errs != nil {
		badRequest(c, errs)
		return
	}

	u, err := ac.userService.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, ac.logger, "FindByEmail", "failed to get a user", err)
		return
	}
	// an unknown email answers like a wrong password
	if u == nil {
		respondError(c, ac.logger, "", "", domain.ErrInvalidCredentials)
		return
	}

	token, err := ac.authService.Login(c.Request.Context(), u, req.Password, c.ClientIP())
	if err != nil {
		respondError(c, ac.logger, "Login", "failed to log in", err)
		return
	}

	c.JSON(http.StatusOK, auth.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}
