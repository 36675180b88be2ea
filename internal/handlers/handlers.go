// Package handlers exposes the catalog, ratings, lists and accounts over
// HTTP with a chi router.
package handlers

import (
	"context"

	"cinelist/internal/auth"
	"cinelist/internal/models"
	"cinelist/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type Catalog interface {
	FetchPopular(ctx context.Context, kind models.Kind, limit int) ([]models.MediaSummary, error)
	Search(ctx context.Context, kind models.Kind, query string, limit int) ([]models.MediaSummary, error)
	FetchDetail(ctx context.Context, kind models.Kind, id int) (*models.MediaDetail, error)
	FetchCredits(ctx context.Context, kind models.Kind, id int) (*models.Credits, error)
}

type RatingService interface {
	Rate(ctx context.Context, userID int64, mediaType string, mediaID int, rating float64, comment *string) (*models.Rating, error)
	UpdateRating(ctx context.Context, userID int64, mediaType string, mediaID int, rating float64, comment *string) error
	DeleteRating(ctx context.Context, userID int64, mediaType string, mediaID int) (string, error)
	ListRatings(ctx context.Context, userID int64, mediaType string) ([]models.Rating, error)
}

type ListService interface {
	Create(ctx context.Context, userID int64, name string) (*models.List, error)
	Lists(ctx context.Context, userID int64) ([]models.List, error)
	Get(ctx context.Context, userID, listID int64) (*models.List, error)
	Rename(ctx context.Context, userID, listID int64, name string) (*models.List, error)
	Delete(ctx context.Context, userID, listID int64) error
	AddItem(ctx context.Context, userID, listID int64, mediaType string, mediaID int) (*models.ListItem, error)
	RemoveItem(ctx context.Context, userID, listID int64, mediaType string, mediaID int) error
}

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListOthers(ctx context.Context, id int64) ([]models.UserPublic, error)
}

type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Catalog      Catalog
	Ratings      RatingService
	Lists        ListService
	Users        UserService
	Tokens       TokenValidator
	DB           Pinger
	CacheBackend string
	Logger       *logrus.Logger
}

type Handler struct {
	catalog      Catalog
	ratings      RatingService
	lists        ListService
	users        UserService
	tokens       TokenValidator
	db           Pinger
	cacheBackend string
	logger       *logrus.Logger
	validate     *validator.Validate
}

func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	return &Handler{
		catalog:      d.Catalog,
		ratings:      d.Ratings,
		lists:        d.Lists,
		users:        d.Users,
		tokens:       d.Tokens,
		db:           d.DB,
		cacheBackend: d.CacheBackend,
		logger:       d.Logger,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}
