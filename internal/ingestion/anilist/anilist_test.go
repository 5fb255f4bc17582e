package anilist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func testClient(url string) *Client {
	c := NewClientWithURL(url)
	c.initialDelay = time.Millisecond
	return c
}

const frierenPage = `{"data":{"Page":{"media":[{
	"id": 154587,
	"title": {"english": "Frieren: Beyond Journey's End", "romaji": "Sousou no Frieren"},
	"description": "The adventure is over.<br><br>But life goes on &amp; an elf <i>waits</i>.",
	"status": "FINISHED",
	"episodes": 28,
	"coverImage": {"large": "https://img.anili.st/frieren.jpg"},
	"genres": ["Adventure", "Drama", "Fantasy"]
}]}}}`

func TestSearchAnime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GraphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "frieren", req.Variables["search"])
		assert.EqualValues(t, 5, req.Variables["perPage"])
		assert.Contains(t, req.Query, "type: ANIME")
		w.Write([]byte(frierenPage))
	}))
	defer srv.Close()

	media, err := testClient(srv.URL).SearchAnime(context.Background(), "  frieren ", 5)
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, "Frieren: Beyond Journey's End", media[0].PreferredTitle())
	assert.Equal(t, 28, *media[0].Episodes)
}

func TestSearchAnime_EmptyQuery(t *testing.T) {
	_, err := NewClientWithURL("http://unused").SearchAnime(context.Background(), " ", 5)
	assert.Error(t, err)
}

func TestSearchAnime_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(frierenPage))
	}))
	defer srv.Close()

	media, err := testClient(srv.URL).SearchAnime(context.Background(), "frieren", 1)
	require.NoError(t, err)
	assert.Len(t, media, 1)
	assert.EqualValues(t, 3, calls.Load())
}

func TestSearchAnime_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).SearchAnime(context.Background(), "frieren", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.EqualValues(t, 1, calls.Load())
}

func TestSearchAnime_GraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"Invalid query"},{"message":"Try again"}]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).SearchAnime(context.Background(), "frieren", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid query; Try again")
}

func TestSearchAnime_ContextCanceledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL)
	c.initialDelay = time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.SearchAnime(ctx, "frieren", 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestToCreateAnimeRequest(t *testing.T) {
	m := Media{
		Title:       Title{English: ptr(""), Romaji: ptr("Sousou no Frieren")},
		Description: ptr("An elf<br>mage &quot;waits&quot;."),
		Episodes:    ptr(28),
		CoverImage:  CoverImage{Large: ptr("https://img.anili.st/frieren.jpg")},
		Genres:      []string{"Fantasy"},
	}

	req := m.ToCreateAnimeRequest(models.StatusWatching)
	assert.Equal(t, "Sousou no Frieren", req.Title)
	assert.Equal(t, `An elf mage "waits".`, req.Description)
	assert.Equal(t, "Watching", req.Status)
	assert.Equal(t, 28, *req.Episodes)
	assert.Equal(t, "https://img.anili.st/frieren.jpg", req.Image)
	assert.Nil(t, req.EpisodesWatched)
}

func TestToCreateAnimeRequest_MissingDescription(t *testing.T) {
	req := Media{Title: Title{Romaji: ptr("Mushishi")}}.ToCreateAnimeRequest(models.StatusPlanning)
	assert.Equal(t, "Mushishi", req.Description)
	assert.Empty(t, req.Image)
}

func TestCleanDescription(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"a<br>b", "a b"},
		{"<b>bold</b>  \n text", "bold text"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanDescription(tt.in), tt.in)
	}
}

type fakeSearcher struct{}

func (fakeSearcher) SearchAnime(_ context.Context, search string, _ int) ([]Media, error) {
	switch search {
	case "missing":
		return nil, nil
	case "broken":
		return nil, errors.New("HTTP 500")
	}
	return []Media{{Title: Title{Romaji: ptr(search)}, Description: ptr("desc")}}, nil
}

type fakeCreator struct {
	mu      sync.Mutex
	created []dto.CreateAnimeRequest
}

func (f *fakeCreator) CreateAnime(req *dto.CreateAnimeRequest) (*dto.AnimeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *req)
	return &dto.AnimeResponse{Title: req.Title, Status: req.Status}, nil
}

func TestImporter(t *testing.T) {
	creator := &fakeCreator{}
	im := NewImporter(fakeSearcher{}, creator, 3, "")

	results := im.Import(context.Background(), []string{"Frieren", " ", "missing", "Mushishi", "broken"})
	require.Len(t, results, 4)

	assert.Equal(t, "Frieren", results[0].Query)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "Planning", results[0].Anime.Status)

	assert.ErrorIs(t, results[1].Err, ErrNoMatch)
	assert.NoError(t, results[2].Err)
	assert.EqualError(t, results[3].Err, "HTTP 500")

	assert.Len(t, creator.created, 2)
}

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 4)
	pool.Start()

	var n atomic.Int32
	for i := 0; i < 20; i++ {
		require.True(t, pool.Submit(func(context.Context) error {
			n.Add(1)
			return nil
		}))
	}
	pool.Wait()
	assert.EqualValues(t, 20, n.Load())
}

func TestWorkerPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1)
	pool.Start()
	pool.Shutdown()

	assert.False(t, pool.Submit(func(context.Context) error { return nil }))
}
