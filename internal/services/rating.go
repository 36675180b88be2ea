package services

import (
	"context"
	"errors"
	"fmt"

	"cinelist/internal/models"
	"cinelist/internal/repository"

	"github.com/sirupsen/logrus"
)

const topCastSize = 10

// MediaLookup is the part of Catalog that rating and list management need.
type MediaLookup interface {
	FetchDetail(ctx context.Context, kind models.Kind, id int) (*models.MediaDetail, error)
	FetchCredits(ctx context.Context, kind models.Kind, id int) (*models.Credits, error)
}

type RatingService struct {
	repo    repository.RatingRepository
	catalog MediaLookup
	logger  *logrus.Logger
}

func NewRatingService(repo repository.RatingRepository, catalog MediaLookup, logger *logrus.Logger) *RatingService {
	if logger == nil {
		logger = logrus.New()
	}
	return &RatingService{repo: repo, catalog: catalog, logger: logger}
}

func parseKind(mediaType string) (models.Kind, error) {
	kind, err := models.ParseKind(mediaType)
	if err != nil {
		return "", ErrUnknownKind
	}
	return kind, nil
}

func validRating(rating float64) bool {
	return rating >= 0 && rating <= 10
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func optionalFloat(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return &f
}

// Rate stores the first rating of a title by a user. The title's details are
// copied into the row so ratings can be listed without calling the catalog.
func (s *RatingService) Rate(ctx context.Context, userID int64, mediaType string, mediaID int, rating float64, comment *string) (*models.Rating, error) {
	if !validRating(rating) {
		return nil, ErrInvalidRating
	}
	kind, err := parseKind(mediaType)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, userID, kind, mediaID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRated
	}

	detail, err := s.catalog.FetchDetail(ctx, kind, mediaID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrMediaNotFound
	}

	base := models.Rating{
		UserID:      userID,
		Kind:        kind,
		MediaID:     mediaID,
		Title:       detail.Title,
		ReleaseDate: optional(detail.ReleaseDate),
		Rating:      rating,
		Comment:     comment,
	}

	switch kind {
	case models.KindMovie:
		credits := s.credits(ctx, kind, mediaID)
		row := &models.RatedMovie{
			Rating:   base,
			Overview: optional(detail.Overview),
			Director: optional(credits.Director()),
			Cast:     optional(credits.TopCast(topCastSize)),
			Runtime:  optionalInt(detail.Runtime),
			Budget:   optionalFloat(detail.Budget),
			Revenue:  optionalFloat(detail.Revenue),
		}
		err = s.repo.InsertMovie(ctx, row)
		base = row.Rating
	case models.KindSeries:
		credits := s.credits(ctx, kind, mediaID)
		row := &models.RatedSeries{
			Rating:      base,
			Overview:    optional(detail.Overview),
			Creator:     optional(seriesCreator(detail, credits)),
			Cast:        optional(credits.TopCast(topCastSize)),
			Episodes:    optionalInt(detail.Episodes),
			Status:      optional(detail.Status),
			LastEpisode: optional(detail.LastAirDate),
		}
		err = s.repo.InsertSeries(ctx, row)
		base = row.Rating
	case models.KindAnime:
		row := &models.RatedAnime{
			Rating:      base,
			Description: optional(detail.Overview),
			Episodes:    optionalInt(detail.Episodes),
			Status:      optional(detail.Status),
		}
		err = s.repo.InsertAnime(ctx, row)
		base = row.Rating
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRated
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"kind":     kind,
		"media_id": mediaID,
		"rating":   rating,
	}).Info("Title rated")
	return &base, nil
}

// credits is FetchCredits with failures folded into nil; a rating is still
// stored when credits are unavailable.
func (s *RatingService) credits(ctx context.Context, kind models.Kind, id int) *models.Credits {
	credits, err := s.catalog.FetchCredits(ctx, kind, id)
	if err != nil {
		s.logger.WithError(err).WithField("media_id", id).Warn("Failed to fetch credits")
		return nil
	}
	return credits
}

// seriesCreator is the credited director, or else the first listed creator.
func seriesCreator(detail *models.MediaDetail, credits *models.Credits) string {
	if director := credits.Director(); director != "" {
		return director
	}
	if detail != nil && len(detail.CreatedBy) > 0 {
		return detail.CreatedBy[0]
	}
	return ""
}

// UpdateRating changes the rating and comment of an existing row. Series rows
// saved without creator or cast get them filled in on the way.
func (s *RatingService) UpdateRating(ctx context.Context, userID int64, mediaType string, mediaID int, rating float64, comment *string) error {
	if !validRating(rating) {
		return ErrInvalidRating
	}
	kind, err := parseKind(mediaType)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateRating(ctx, userID, kind, mediaID, rating, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: rating", ErrNotFound)
		}
		return err
	}

	if kind == models.KindSeries {
		s.backfillSeries(ctx, userID, mediaID)
	}
	return nil
}

func (s *RatingService) backfillSeries(ctx context.Context, userID int64, mediaID int) {
	row, err := s.repo.GetSeries(ctx, userID, mediaID)
	if err != nil {
		s.logger.WithError(err).WithField("media_id", mediaID).Warn("Failed to load rated series")
		return
	}
	if row.Creator != nil && row.Cast != nil {
		return
	}

	credits := s.credits(ctx, models.KindSeries, mediaID)
	var creator, cast *string
	if row.Creator == nil {
		name := credits.Director()
		if name == "" {
			detail, err := s.catalog.FetchDetail(ctx, models.KindSeries, mediaID)
			if err == nil {
				name = seriesCreator(detail, nil)
			}
		}
		creator = optional(name)
	}
	if row.Cast == nil {
		cast = optional(credits.TopCast(topCastSize))
	}

	if err := s.repo.UpdateSeriesCredits(ctx, userID, mediaID, creator, cast); err != nil {
		s.logger.WithError(err).WithField("media_id", mediaID).Warn("Failed to backfill series credits")
	}
}

// DeleteRating removes the row and returns the title it was stored under.
func (s *RatingService) DeleteRating(ctx context.Context, userID int64, mediaType string, mediaID int) (string, error) {
	kind, err := parseKind(mediaType)
	if err != nil {
		return "", err
	}

	title, err := s.repo.Delete(ctx, userID, kind, mediaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: rating", ErrNotFound)
		}
		return "", err
	}
	return title, nil
}

func (s *RatingService) ListRatings(ctx context.Context, userID int64, mediaType string) ([]models.Rating, error) {
	kind, err := parseKind(mediaType)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, userID, kind)
}
