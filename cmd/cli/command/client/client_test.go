package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"animedrop/internal/microservices/http-api/dto"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"message": message, "data": data})
}

func TestHTTPClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret1" {
			writeEnvelope(w, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "Login successful", dto.AuthResponse{
			Token: "jwt",
			User:  dto.AccountResponse{ID: "u1", Username: "alice"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/api/")

	out, err := c.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", out.Token)
	assert.Equal(t, "alice", out.User.Username)

	_, err = c.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "nope"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestHTTPClient_SendsTokenAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/anime/discovery", r.URL.Path)
		assert.Equal(t, "fri", r.URL.Query().Get("search"))
		assert.Equal(t, "Fantasy", r.URL.Query().Get("genre"))
		writeEnvelope(w, http.StatusOK, "ok", []dto.AnimeResponse{{ID: "a1", Title: "Frieren"}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/api")
	c.SetToken("jwt")

	list, err := c.Discover("fri", "Fantasy")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Frieren", list[0].Title)
}

func TestHTTPClient_NullData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeEnvelope(w, http.StatusOK, "Anime deleted successfully", nil)
	}))
	defer srv.Close()

	assert.NoError(t, NewHTTPClient(srv.URL).DeleteAnime("a1"))
}

func TestHTTPClient_UnreadCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "ok", dto.UnreadCountResponse{Count: 3})
	}))
	defer srv.Close()

	n, err := NewHTTPClient(srv.URL).UnreadCount()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestNotificationsURL(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{"http://localhost:3000/api", "ws://localhost:3000/api/notifications/ws", false},
		{"https://animedrop.example/api/", "wss://animedrop.example/api/notifications/ws", false},
		{"ftp://nope", "", true},
	}
	for _, tt := range tests {
		got, err := NotificationsURL(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestListenNotifications(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications/ws", r.URL.Path)
		assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		_ = conn.WriteJSON(map[string]any{"type": "system", "data": map[string]string{"message": "connected"}})
		_ = conn.WriteJSON(map[string]any{"type": "notification", "data": dto.NotificationResponse{
			ID: "n1", Type: "follow", Message: "bob started following you", Link: "/users/bob",
		}})
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var out bytes.Buffer
	require.NoError(t, ListenNotifications(ctx, srv.URL+"/api", "jwt", &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "connected")
	assert.Contains(t, lines[1], "bob started following you (/users/bob)")
}
