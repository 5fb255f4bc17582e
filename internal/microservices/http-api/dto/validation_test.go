package dto

import (
	"errors"
	"testing"

	"animedrop/internal/microservices/http-api/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindingMessage(t *testing.T) {
	RegisterValidators()

	tests := []struct {
		name string
		req  any
		want string
	}{
		{
			name: "missing username",
			req:  &RegisterRequest{Email: "a@b.co", Password: "secret1"},
			want: "Username is required",
		},
		{
			name: "bad email",
			req:  &RegisterRequest{Username: "alice", Email: "nope", Password: "secret1"},
			want: "Please provide a valid email",
		},
		{
			name: "missing password",
			req:  &RegisterRequest{Username: "alice", Email: "a@b.co"},
			want: "Password is required",
		},
		{
			name: "unknown status",
			req:  &CreateAnimeRequest{Title: "t", Description: "d", Status: "Binging"},
			want: "Status must be one of: Planning, Watching, Completed, Dropped, On Hold",
		},
		{
			name: "rating too high",
			req:  &CreateReviewRequest{Rating: intPtr(11), Review: "great"},
			want: "Rating must be at most 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.want, BindingMessage(err))
		})
	}
}

func TestBindingMessage_NonValidationError(t *testing.T) {
	assert.Equal(t, "Invalid request body", BindingMessage(errors.New("unexpected EOF")))
}

func TestAnimeStatusValidator_AcceptsOnHold(t *testing.T) {
	RegisterValidators()
	req := &CreateAnimeRequest{Title: "t", Description: "d", Status: "On Hold"}
	assert.NoError(t, binding.Validator.ValidateStruct(req))
}

func TestFromModelToAnimeDetailResponse(t *testing.T) {
	a := &models.Anime{
		ID:     "a1",
		Title:  "Frieren",
		Genres: pq.StringArray{"Fantasy"},
		User:   &models.User{ID: "u1", Username: "alice", Email: "alice@example.com"},
	}

	resp := FromModelToAnimeDetailResponse(a)
	assert.Equal(t, "a1", resp.ID)
	assert.Equal(t, []string{"Fantasy"}, resp.Genres)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotNil(t, resp.Reviews)
	assert.Empty(t, resp.Reviews)

	assert.Equal(t, []string{}, FromModelToAnimeResponse(&models.Anime{}).Genres)
}

func intPtr(v int) *int { return &v }
