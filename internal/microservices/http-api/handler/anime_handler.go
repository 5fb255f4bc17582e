package handler

import (
	"net/http"

	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/middleware"
	"animedrop/internal/microservices/http-api/repository"
	"animedrop/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AnimeHandler struct {
	svc service.AnimeService
}

func NewAnimeHandler(svc service.AnimeService) *AnimeHandler {
	return &AnimeHandler{svc: svc}
}

func (h *AnimeHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	// Public routes
	rg.GET("/discovery", h.Discovery)
	rg.GET("/:id", h.Get)

	// Authenticated routes
	rg.GET("/my-list", requireAuth, h.MyList)
	rg.POST("", requireAuth, h.Create)
	rg.PUT("/:id", requireAuth, h.Update)
	rg.DELETE("/:id", requireAuth, h.Delete)
	rg.POST("/:id/review", requireAuth, h.AddReview)
}

func (h *AnimeHandler) Discovery(c *gin.Context) {
	var q dto.DiscoveryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.svc.Discover(ctx, repository.DiscoveryFilter{Search: q.Search, Genre: q.Genre})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Anime discovery retrieved", dto.FromModelsToAnimeResponses(list))
}

func (h *AnimeHandler) MyList(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.svc.ListMine(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "My anime list retrieved", dto.FromModelsToAnimeResponses(list))
}

func (h *AnimeHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	a, err := h.svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Anime retrieved", dto.FromModelToAnimeDetailResponse(a))
}

func (h *AnimeHandler) Create(c *gin.Context) {
	var req dto.CreateAnimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	a, err := h.svc.Create(ctx, middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Anime added successfully", dto.FromModelToAnimeResponse(a))
}

func (h *AnimeHandler) Update(c *gin.Context) {
	var req dto.UpdateAnimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	a, err := h.svc.Update(ctx, c.Param("id"), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Anime updated successfully", dto.FromModelToAnimeResponse(a))
}

func (h *AnimeHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Anime deleted successfully")
}

func (h *AnimeHandler) AddReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	a, err := h.svc.AddReview(ctx, c.Param("id"), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Review added successfully", dto.FromModelToAnimeDetailResponse(a))
}
