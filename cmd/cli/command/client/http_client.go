package client

// http_client.go = typed client for the AnimeDrop REST API.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/shared"
)

// APIError is a non-2xx response. Message is the server's envelope message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewHTTPClient targets apiURL, e.g. http://localhost:3000/api.
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends body as JSON and decodes the envelope's data into out when out
// is non-nil. It returns the envelope message.
func do[T any](c *HTTPClient, method, path string, body any, out *T) (string, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return "", err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var env shared.Envelope[T]
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	if out != nil {
		*out = env.Data
	}
	return env.Message, nil
}

// Auth

func (c *HTTPClient) Register(request *dto.RegisterRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if _, err := do(c, http.MethodPost, "/auth/register", request, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(request *dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if _, err := do(c, http.MethodPost, "/auth/login", request, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me() (*dto.AccountResponse, error) {
	var out dto.AccountResponse
	if _, err := do(c, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Anime

func (c *HTTPClient) Discover(search, genre string) ([]dto.AnimeResponse, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if genre != "" {
		q.Set("genre", genre)
	}
	path := "/anime/discovery"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []dto.AnimeResponse
	_, err := do(c, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *HTTPClient) MyList() ([]dto.AnimeResponse, error) {
	var out []dto.AnimeResponse
	_, err := do(c, http.MethodGet, "/anime/my-list", nil, &out)
	return out, err
}

func (c *HTTPClient) GetAnime(id string) (*dto.AnimeDetailResponse, error) {
	var out dto.AnimeDetailResponse
	if _, err := do(c, http.MethodGet, "/anime/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateAnime(request *dto.CreateAnimeRequest) (*dto.AnimeResponse, error) {
	var out dto.AnimeResponse
	if _, err := do(c, http.MethodPost, "/anime", request, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateAnime(id string, request *dto.UpdateAnimeRequest) (*dto.AnimeResponse, error) {
	var out dto.AnimeResponse
	if _, err := do(c, http.MethodPut, "/anime/"+url.PathEscape(id), request, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteAnime(id string) error {
	_, err := do[struct{}](c, http.MethodDelete, "/anime/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *HTTPClient) AddReview(id string, request *dto.CreateReviewRequest) (*dto.AnimeDetailResponse, error) {
	var out dto.AnimeDetailResponse
	if _, err := do(c, http.MethodPost, "/anime/"+url.PathEscape(id)+"/review", request, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users

func (c *HTTPClient) ListUsers(search string) ([]dto.UserResponse, error) {
	path := "/users"
	if search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}
	var out []dto.UserResponse
	_, err := do(c, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *HTTPClient) GetProfile(userID string) (*dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	if _, err := do(c, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Follow(userID string) error {
	_, err := do[struct{}](c, http.MethodPost, "/users/"+url.PathEscape(userID)+"/follow", nil, nil)
	return err
}

func (c *HTTPClient) Unfollow(userID string) error {
	_, err := do[struct{}](c, http.MethodPost, "/users/"+url.PathEscape(userID)+"/unfollow", nil, nil)
	return err
}

func (c *HTTPClient) UpdateProfile(request *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if _, err := do(c, http.MethodPut, "/users/profile", request, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Notifications

func (c *HTTPClient) Notifications() ([]dto.NotificationResponse, error) {
	var out []dto.NotificationResponse
	_, err := do(c, http.MethodGet, "/notifications", nil, &out)
	return out, err
}

func (c *HTTPClient) UnreadCount() (int64, error) {
	var out dto.UnreadCountResponse
	_, err := do(c, http.MethodGet, "/notifications/unread-count", nil, &out)
	return out.Count, err
}

func (c *HTTPClient) MarkRead(id string) (*dto.NotificationResponse, error) {
	var out dto.NotificationResponse
	if _, err := do(c, http.MethodPut, "/notifications/"+url.PathEscape(id)+"/read", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) MarkAllRead() error {
	_, err := do[struct{}](c, http.MethodPut, "/notifications/read-all", nil, nil)
	return err
}

func (c *HTTPClient) DeleteNotification(id string) error {
	_, err := do[struct{}](c, http.MethodDelete, "/notifications/"+url.PathEscape(id), nil, nil)
	return err
}
