package services

import (
	"context"
	"fmt"
	"strings"

	"cinelist/internal/models"

	"github.com/sirupsen/logrus"
)

// MaxLimit caps how many titles one listing call may ask for.
const MaxLimit = 100

// MediaProvider is a catalog source. Implementations degrade every upstream
// failure to an empty slice or nil and never return an error.
type MediaProvider interface {
	Popular(ctx context.Context, kind models.Kind, limit int) []models.MediaSummary
	Search(ctx context.Context, kind models.Kind, query string, limit int) []models.MediaSummary
	Detail(ctx context.Context, kind models.Kind, id int) *models.MediaDetail
	Credits(ctx context.Context, kind models.Kind, id int) *models.Credits
}

// Catalog routes each media kind to its provider. The only errors it
// returns are about the arguments; a title that cannot be found or fetched
// is an empty result.
type Catalog struct {
	providers map[models.Kind]MediaProvider
	logger    *logrus.Logger
}

func NewCatalog(movies, series, anime MediaProvider, logger *logrus.Logger) *Catalog {
	if logger == nil {
		logger = logrus.New()
	}
	return &Catalog{
		providers: map[models.Kind]MediaProvider{
			models.KindMovie:  movies,
			models.KindSeries: series,
			models.KindAnime:  anime,
		},
		logger: logger,
	}
}

func (c *Catalog) provider(kind models.Kind) (MediaProvider, error) {
	p, ok := c.providers[kind]
	if !ok || p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return p, nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func (c *Catalog) FetchPopular(ctx context.Context, kind models.Kind, limit int) ([]models.MediaSummary, error) {
	p, err := c.provider(kind)
	if err != nil {
		return nil, err
	}
	return p.Popular(ctx, kind, clampLimit(limit)), nil
}

func (c *Catalog) Search(ctx context.Context, kind models.Kind, query string, limit int) ([]models.MediaSummary, error) {
	p, err := c.provider(kind)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query cannot be empty", ErrInvalidInput)
	}

	c.logger.WithFields(logrus.Fields{"kind": kind, "query": query}).Debug("Searching catalog")
	return p.Search(ctx, kind, query, clampLimit(limit)), nil
}

// FetchDetail returns (nil, nil) when the title does not exist or its
// provider is unavailable.
func (c *Catalog) FetchDetail(ctx context.Context, kind models.Kind, id int) (*models.MediaDetail, error) {
	p, err := c.provider(kind)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}
	return p.Detail(ctx, kind, id), nil
}

func (c *Catalog) FetchCredits(ctx context.Context, kind models.Kind, id int) (*models.Credits, error) {
	p, err := c.provider(kind)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}
	return p.Credits(ctx, kind, id), nil
}
