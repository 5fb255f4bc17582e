package dto

import (
	"time"

	"animedrop/internal/microservices/http-api/models"
)

// UserSummary is the short form embedded in other resources.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// UserResponse is a public user, without email.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileUser adds the follow graph to UserResponse.
type ProfileUser struct {
	UserResponse
	Followers []UserSummary `json:"followers"`
	Following []UserSummary `json:"following"`
}

// ProfileResponse for GET /users/:userId
type ProfileResponse struct {
	User      ProfileUser     `json:"user"`
	AnimeList []AnimeResponse `json:"animeList"`
}

// UpdateProfileRequest: only provided fields change
type UpdateProfileRequest struct {
	Bio    *string `json:"bio" binding:"omitempty,max=500"`
	Avatar *string `json:"avatar" binding:"omitempty"`
}

func FromModelToUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

func FromModelToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}

func FromModelsToUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, FromModelToUserResponse(&users[i]))
	}
	return out
}

func summaries(users []models.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		out = append(out, *FromModelToUserSummary(&users[i]))
	}
	return out
}

// FromModelToProfileResponse expects u.Followers and u.Following to be loaded.
func FromModelToProfileResponse(u *models.User, animeList []models.Anime) ProfileResponse {
	return ProfileResponse{
		User: ProfileUser{
			UserResponse: FromModelToUserResponse(u),
			Followers:    summaries(u.Followers),
			Following:    summaries(u.Following),
		},
		AnimeList: FromModelsToAnimeResponses(animeList),
	}
}
