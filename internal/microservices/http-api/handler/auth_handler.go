package handler

import (
	"net/http"

	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/middleware"
	"animedrop/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts /register, /login and /me. limit guards the
// credential endpoints.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth, limit gin.HandlerFunc) {
	rg.POST("/register", limit, h.Register)
	rg.POST("/login", limit, h.Login)
	rg.GET("/me", requireAuth, h.Me)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	token, user, err := h.authService.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "User registered successfully", dto.AuthResponse{
		Token: token,
		User:  dto.FromModelToAccountResponse(user),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	token, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Login successful", dto.AuthResponse{
		Token: token,
		User:  dto.FromModelToAccountResponse(user),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.authService.CurrentUser(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User retrieved", dto.FromModelToAccountResponse(user))
}
