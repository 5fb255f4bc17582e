package anilist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"animedrop/internal/logging"
	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/models"
)

// ErrNoMatch is returned when AniList has no entry for a title.
var ErrNoMatch = errors.New("no AniList match")

// Searcher looks anime up by title. *Client implements it.
type Searcher interface {
	SearchAnime(ctx context.Context, search string, perPage int) ([]Media, error)
}

// AnimeCreator adds an entry to the caller's list.
type AnimeCreator interface {
	CreateAnime(req *dto.CreateAnimeRequest) (*dto.AnimeResponse, error)
}

// ImportResult is the outcome for one requested title, in input order.
type ImportResult struct {
	Query string
	Anime *dto.AnimeResponse
	Err   error
}

// Importer resolves titles on AniList and adds the best match of each to a
// list, several at a time.
type Importer struct {
	search  Searcher
	creator AnimeCreator
	workers int
	status  models.AnimeStatus
}

func NewImporter(search Searcher, creator AnimeCreator, workers int, status models.AnimeStatus) *Importer {
	if !status.Valid() {
		status = models.StatusPlanning
	}
	return &Importer{search: search, creator: creator, workers: workers, status: status}
}

// Import processes titles concurrently. Blank titles are skipped.
func (im *Importer) Import(ctx context.Context, titles []string) []ImportResult {
	queries := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			queries = append(queries, t)
		}
	}

	// titles never picked up by a worker keep the cancellation error
	results := make([]ImportResult, len(queries))
	for i, q := range queries {
		results[i] = ImportResult{Query: q, Err: context.Canceled}
	}

	pool := NewWorkerPool(ctx, im.workers)
	pool.Start()

	for i, q := range queries {
		ok := pool.Submit(func(ctx context.Context) error {
			anime, err := im.importOne(ctx, q)
			results[i] = ImportResult{Query: q, Anime: anime, Err: err}
			return err
		})
		if !ok {
			break
		}
	}
	pool.Wait()

	imported := 0
	for _, r := range results {
		if r.Err == nil {
			imported++
		}
	}
	logging.Info().Int("requested", len(queries)).Int("imported", imported).Msg("anilist import finished")
	return results
}

func (im *Importer) importOne(ctx context.Context, query string) (*dto.AnimeResponse, error) {
	media, err := im.search.SearchAnime(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(media) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoMatch, query)
	}
	req := media[0].ToCreateAnimeRequest(im.status)
	return im.creator.CreateAnime(&req)
}
