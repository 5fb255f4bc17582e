package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/models"
	"animedrop/internal/microservices/http-api/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const maxBioLength = 500

var fieldValidator = validator.New()

type UserService interface {
	List(ctx context.Context, search string) ([]models.User, error)
	// GetProfile returns the user with Followers and Following loaded, plus
	// the user's anime list.
	GetProfile(ctx context.Context, userID string) (*models.User, []models.Anime, error)
	Follow(ctx context.Context, actorID, targetID string) error
	Unfollow(ctx context.Context, actorID, targetID string) error
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.User, error)
}

type userService struct {
	users    repository.UserRepository
	anime    repository.AnimeRepository
	notifier Notifier
}

func NewUserService(users repository.UserRepository, anime repository.AnimeRepository, notifier Notifier) UserService {
	return &userService{users: users, anime: anime, notifier: notifier}
}

func (s *userService) List(ctx context.Context, search string) ([]models.User, error) {
	return s.users.List(ctx, search)
}

func (s *userService) findUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, []models.Anime, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if u.Followers, err = s.users.Followers(ctx, userID); err != nil {
		return nil, nil, err
	}
	if u.Following, err = s.users.Following(ctx, userID); err != nil {
		return nil, nil, err
	}

	list, err := s.anime.ListByOwner(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return u, list, nil
}

// Follow is idempotent; the target is notified only for a new edge.
func (s *userService) Follow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfFollow
	}
	if _, err := s.findUser(ctx, targetID); err != nil {
		return err
	}

	created, err := s.users.Follow(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	actorName := "Someone"
	if actor, err := s.users.FindByID(ctx, actorID); err == nil {
		actorName = actor.Username
	}
	notifyBestEffort(ctx, s.notifier, NotifyInput{
		RecipientID: targetID,
		SenderID:    actorID,
		Type:        models.NotificationFollow,
		Message:     fmt.Sprintf("%s started following you", actorName),
		Link:        "/users/" + actorID,
	})
	return nil
}

func (s *userService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if _, err := s.findUser(ctx, targetID); err != nil {
		return err
	}
	return s.users.Unfollow(ctx, actorID, targetID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.User, error) {
	updates := make(map[string]any, 2)

	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		if utf8.RuneCountInString(bio) > maxBioLength {
			return nil, Validationf("Bio must be at most %d characters", maxBioLength)
		}
		updates["bio"] = bio
	}
	if req.Avatar != nil {
		avatar := strings.TrimSpace(*req.Avatar)
		if avatar != "" {
			if err := fieldValidator.Var(avatar, "url"); err != nil {
				return nil, Validationf("Avatar must be a valid URL")
			}
		}
		updates["avatar"] = avatar
	}

	u, err := s.users.UpdateProfile(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
