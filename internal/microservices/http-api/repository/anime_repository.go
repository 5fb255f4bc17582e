package repository

import (
	"context"
	"fmt"
	"strings"

	"animedrop/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DiscoveryFilter narrows the public listing. Empty fields match everything.
type DiscoveryFilter struct {
	Search string
	Genre  string
}

// RatingAverager turns the full set of ratings of one anime into its stored average.
type RatingAverager func(ratings []int) float64

type AnimeRepository interface {
	List(ctx context.Context, filter DiscoveryFilter) ([]models.Anime, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Anime, error)
	FindByID(ctx context.Context, id string) (*models.Anime, error)
	Create(ctx context.Context, anime *models.Anime) error
	Update(ctx context.Context, anime *models.Anime) error
	Delete(ctx context.Context, id string) error

	// AddReview inserts review and recomputes the anime's average rating while
	// holding a row lock on the anime, so concurrent reviews never lose an update.
	// A second review by the same user fails with a *DuplicateError.
	AddReview(ctx context.Context, review *models.Review, average RatingAverager) (*models.Anime, error)
}

type animeRepository struct {
	db *gorm.DB
}

func NewAnimeRepository(db *gorm.DB) AnimeRepository {
	return &animeRepository{db: db}
}

func preloadOwner(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "avatar")
}

// List performs the discovery query: case-insensitive substring match on title
// or description, case-insensitive genre membership, newest first.
func (r *animeRepository) List(ctx context.Context, filter DiscoveryFilter) ([]models.Anime, error) {
	var list []models.Anime
	q := r.db.WithContext(ctx).Model(&models.Anime{}).Preload("User", preloadOwner)

	if s := strings.TrimSpace(filter.Search); s != "" {
		p := "%" + escapeLike(s) + "%"
		q = q.Where("(title ILIKE ? OR description ILIKE ?)", p, p)
	}
	if g := strings.TrimSpace(filter.Genre); g != "" {
		q = q.Where("EXISTS (SELECT 1 FROM unnest(genres) AS g WHERE lower(g) = lower(?))", g)
	}

	if err := q.Order("created_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list anime: %w", err)
	}
	return list, nil
}

func (r *animeRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Anime, error) {
	var list []models.Anime
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at desc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list anime by owner: %w", err)
	}
	return list, nil
}

func (r *animeRepository) FindByID(ctx context.Context, id string) (*models.Anime, error) {
	if !isID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var a models.Anime
	err := r.db.WithContext(ctx).
		Preload("User", preloadOwner).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Reviews.User", preloadOwner).
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *animeRepository) Create(ctx context.Context, anime *models.Anime) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(anime).Error; err != nil {
		return fmt.Errorf("create anime: %w", translateError(err))
	}
	// GORM populates anime.ID and the timestamps
	return nil
}

func (r *animeRepository) Update(ctx context.Context, anime *models.Anime) error {
	// average_rating belongs to AddReview and is never written from here
	err := r.db.WithContext(ctx).Model(anime).
		Select("title", "description", "image", "genres", "status", "episodes", "episodes_watched", "updated_at").
		Omit(clause.Associations).
		Updates(anime).Error
	if err != nil {
		return fmt.Errorf("update anime: %w", err)
	}
	return nil
}

func (r *animeRepository) Delete(ctx context.Context, id string) error {
	if !isID(id) {
		return gorm.ErrRecordNotFound
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("anime_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		res := tx.Delete(&models.Anime{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete anime: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *animeRepository) AddReview(ctx context.Context, review *models.Review, average RatingAverager) (*models.Anime, error) {
	if !isID(review.AnimeID) {
		return nil, gorm.ErrRecordNotFound
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Anime
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&a, "id = ?", review.AnimeID).Error; err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(review).Error; err != nil {
			return fmt.Errorf("create review: %w", translateError(err))
		}

		var ratings []int
		if err := tx.Model(&models.Review{}).
			Where("anime_id = ?", review.AnimeID).
			Pluck("rating", &ratings).Error; err != nil {
			return fmt.Errorf("load ratings: %w", err)
		}

		return tx.Model(&models.Anime{}).
			Where("id = ?", review.AnimeID).
			Update("average_rating", average(ratings)).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, review.AnimeID)
}
