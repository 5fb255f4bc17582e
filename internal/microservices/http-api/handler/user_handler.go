package handler

import (
	"net/http"

	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/middleware"
	"animedrop/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:userId", h.Profile)
	rg.POST("/:userId/follow", requireAuth, h.Follow)
	rg.POST("/:userId/unfollow", requireAuth, h.Unfollow)
	rg.PUT("/profile", requireAuth, h.UpdateProfile)
}

func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.svc.List(ctx, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Users retrieved", dto.FromModelsToUserResponses(users))
}

func (h *UserHandler) Profile(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, list, err := h.svc.GetProfile(ctx, c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User profile retrieved", dto.FromModelToProfileResponse(user, list))
}

func (h *UserHandler) Follow(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Follow(ctx, middleware.UserID(c), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "User followed successfully")
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Unfollow(ctx, middleware.UserID(c), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "User unfollowed successfully")
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.svc.UpdateProfile(ctx, middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated successfully", dto.FromModelToUserResponse(user))
}
