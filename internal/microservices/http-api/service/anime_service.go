package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"animedrop/internal/logging"
	"animedrop/internal/metrics"
	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/models"
	"animedrop/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type AnimeService interface {
	Discover(ctx context.Context, filter repository.DiscoveryFilter) ([]models.Anime, error)
	ListMine(ctx context.Context, ownerID string) ([]models.Anime, error)
	GetByID(ctx context.Context, id string) (*models.Anime, error)
	Create(ctx context.Context, ownerID string, req dto.CreateAnimeRequest) (*models.Anime, error)
	Update(ctx context.Context, id, ownerID string, req dto.UpdateAnimeRequest) (*models.Anime, error)
	Delete(ctx context.Context, id, ownerID string) error
	AddReview(ctx context.Context, id, reviewerID string, req dto.CreateReviewRequest) (*models.Anime, error)
}

type animeService struct {
	repo     repository.AnimeRepository
	users    repository.UserRepository
	cache    repository.DiscoveryCache
	notifier Notifier
}

// NewAnimeService builds the service. cache and notifier may be nil.
func NewAnimeService(
	repo repository.AnimeRepository,
	users repository.UserRepository,
	cache repository.DiscoveryCache,
	notifier Notifier,
) AnimeService {
	return &animeService{repo: repo, users: users, cache: cache, notifier: notifier}
}

func (s *animeService) Discover(ctx context.Context, filter repository.DiscoveryFilter) ([]models.Anime, error) {
	version := repository.NoCacheVersion
	if s.cache != nil {
		list, v, ok := s.cache.Get(ctx, filter)
		if ok {
			return list, nil
		}
		version = v
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, version, filter, list)
	}
	return list, nil
}

func (s *animeService) ListMine(ctx context.Context, ownerID string) ([]models.Anime, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *animeService) GetByID(ctx context.Context, id string) (*models.Anime, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnimeNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *animeService) Create(ctx context.Context, ownerID string, req dto.CreateAnimeRequest) (*models.Anime, error) {
	a := &models.Anime{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Image:       strings.TrimSpace(req.Image),
		Genres:      cleanGenres(req.Genres),
		Status:      models.AnimeStatus(req.Status),
		UserID:      ownerID,
	}
	if a.Image == "" {
		a.Image = models.DefaultAnimeImage
	}
	if a.Status == "" {
		a.Status = models.StatusPlanning
	}
	if req.Episodes != nil {
		a.Episodes = *req.Episodes
	}
	if req.EpisodesWatched != nil {
		a.EpisodesWatched = *req.EpisodesWatched
	}

	if err := validateAnime(a); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return a, nil
}

func (s *animeService) Update(ctx context.Context, id, ownerID string, req dto.UpdateAnimeRequest) (*models.Anime, error) {
	a, err := s.ownedAnime(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	// merge only provided fields
	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		a.Description = strings.TrimSpace(*req.Description)
	}
	if req.Image != nil {
		a.Image = strings.TrimSpace(*req.Image)
		if a.Image == "" {
			a.Image = models.DefaultAnimeImage
		}
	}
	if req.Genres != nil {
		a.Genres = cleanGenres(*req.Genres)
	}
	if req.Status != nil {
		a.Status = models.AnimeStatus(*req.Status)
	}
	if req.Episodes != nil {
		a.Episodes = *req.Episodes
	}
	if req.EpisodesWatched != nil {
		a.EpisodesWatched = *req.EpisodesWatched
	}

	if err := validateAnime(a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return a, nil
}

func (s *animeService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.ownedAnime(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnimeNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *animeService) AddReview(ctx context.Context, id, reviewerID string, req dto.CreateReviewRequest) (*models.Anime, error) {
	if req.Rating == nil || *req.Rating < 1 || *req.Rating > 10 {
		return nil, ErrInvalidRating
	}
	text := strings.TrimSpace(req.Review)
	if text == "" {
		return nil, ErrEmptyReview
	}

	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID == reviewerID {
		return nil, ErrOwnAnimeReview
	}

	review := &models.Review{
		AnimeID: id,
		UserID:  reviewerID,
		Rating:  *req.Rating,
		Review:  text,
	}
	updated, err := s.repo.AddReview(ctx, review, AverageRating)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrAnimeNotFound
		case errors.Is(err, repository.ErrDuplicate):
			// the unique (anime, reviewer) index is the only duplicate check
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	metrics.ReviewsCreated.Inc()
	s.invalidate(ctx)

	reviewerName := "Someone"
	if reviewer, err := s.users.FindByID(ctx, reviewerID); err == nil {
		reviewerName = reviewer.Username
	}
	notifyBestEffort(ctx, s.notifier, NotifyInput{
		RecipientID: updated.UserID,
		SenderID:    reviewerID,
		Type:        models.NotificationReview,
		Message:     fmt.Sprintf("%s reviewed %s", reviewerName, updated.Title),
		Link:        "/anime/" + updated.ID,
	})

	return updated, nil
}

// ownedAnime loads id and checks that ownerID owns it.
func (s *animeService) ownedAnime(ctx context.Context, id, ownerID string) (*models.Anime, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != ownerID {
		logging.Ctx(ctx).Debug().Str("anime_id", id).Str("user_id", ownerID).Msg("anime ownership check failed")
		return nil, ErrNotAnimeOwner
	}
	return a, nil
}

func (s *animeService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func validateAnime(a *models.Anime) error {
	switch {
	case a.Title == "":
		return Validationf("Title is required")
	case a.Description == "":
		return Validationf("Description is required")
	case !a.Status.Valid():
		return Validationf("Invalid status %q", a.Status)
	case a.Episodes < 0 || a.EpisodesWatched < 0:
		return Validationf("Episode counts cannot be negative")
	case a.Episodes > 0 && a.EpisodesWatched > a.Episodes:
		return Validationf("Episodes watched cannot exceed total episodes")
	}
	return nil
}

// cleanGenres trims entries and drops blanks and case-insensitive duplicates.
func cleanGenres(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, g := range in {
		g = strings.TrimSpace(g)
		key := strings.ToLower(g)
		if g == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, g)
	}
	return out
}

// AverageRating is the arithmetic mean rounded to one decimal place, 0 for no ratings.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}
