package dto

import (
	"time"

	"animedrop/internal/microservices/http-api/models"
)

// CreateAnimeRequest for POST /anime
type CreateAnimeRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	Image           string   `json:"image"`
	Genres          []string `json:"genres"`
	Status          string   `json:"status" binding:"omitempty,anime_status"`
	Episodes        *int     `json:"episodes" binding:"omitempty,min=0"`
	EpisodesWatched *int     `json:"episodesWatched" binding:"omitempty,min=0"`
}

// UpdateAnimeRequest for PUT /anime/:id; nil fields are left untouched
type UpdateAnimeRequest struct {
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	Image           *string   `json:"image"`
	Genres          *[]string `json:"genres"`
	Status          *string   `json:"status" binding:"omitempty,anime_status"`
	Episodes        *int      `json:"episodes" binding:"omitempty,min=0"`
	EpisodesWatched *int      `json:"episodesWatched" binding:"omitempty,min=0"`
}

// CreateReviewRequest for POST /anime/:id/review
type CreateReviewRequest struct {
	Rating *int   `json:"rating" binding:"required,min=1,max=10"`
	Review string `json:"review" binding:"required"`
}

// DiscoveryQuery binds GET /anime/discovery?search=&genre=
type DiscoveryQuery struct {
	Search string `form:"search"`
	Genre  string `form:"genre"`
}

type AnimeResponse struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Image           string       `json:"image"`
	Genres          []string     `json:"genres"`
	Status          string       `json:"status"`
	Episodes        int          `json:"episodes"`
	EpisodesWatched int          `json:"episodesWatched"`
	AverageRating   float64      `json:"averageRating"`
	User            *UserSummary `json:"user,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

type ReviewResponse struct {
	ID        string       `json:"id"`
	User      *UserSummary `json:"user"`
	Rating    int          `json:"rating"`
	Review    string       `json:"review"`
	CreatedAt time.Time    `json:"createdAt"`
}

// AnimeDetailResponse always carries the review list, possibly empty.
type AnimeDetailResponse struct {
	AnimeResponse
	Reviews []ReviewResponse `json:"reviews"`
}

func FromModelToAnimeResponse(a *models.Anime) AnimeResponse {
	genres := []string(a.Genres)
	if genres == nil {
		genres = []string{}
	}
	return AnimeResponse{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		Image:           a.Image,
		Genres:          genres,
		Status:          string(a.Status),
		Episodes:        a.Episodes,
		EpisodesWatched: a.EpisodesWatched,
		AverageRating:   a.AverageRating,
		User:            FromModelToUserSummary(a.User),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func FromModelsToAnimeResponses(list []models.Anime) []AnimeResponse {
	out := make([]AnimeResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModelToAnimeResponse(&list[i]))
	}
	return out
}

func FromModelToAnimeDetailResponse(a *models.Anime) AnimeDetailResponse {
	reviews := make([]ReviewResponse, 0, len(a.Reviews))
	for i := range a.Reviews {
		r := &a.Reviews[i]
		reviews = append(reviews, ReviewResponse{
			ID:        r.ID,
			User:      FromModelToUserSummary(r.User),
			Rating:    r.Rating,
			Review:    r.Review,
			CreatedAt: r.CreatedAt,
		})
	}
	return AnimeDetailResponse{
		AnimeResponse: FromModelToAnimeResponse(a),
		Reviews:       reviews,
	}
}
