package repository

import (
	"context"
	"fmt"

	"cinelist/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// RatingRepository persists ratings. Each media kind has its own table, but
// all of them are keyed by (user_id, media_id).
type RatingRepository interface {
	Exists(ctx context.Context, userID int64, kind models.Kind, mediaID int) (bool, error)
	InsertMovie(ctx context.Context, r *models.RatedMovie) error
	InsertSeries(ctx context.Context, r *models.RatedSeries) error
	InsertAnime(ctx context.Context, r *models.RatedAnime) error
	UpdateRating(ctx context.Context, userID int64, kind models.Kind, mediaID int, rating float64, comment *string) error
	GetSeries(ctx context.Context, userID int64, mediaID int) (*models.RatedSeries, error)
	UpdateSeriesCredits(ctx context.Context, userID int64, mediaID int, creator, cast *string) error
	Delete(ctx context.Context, userID int64, kind models.Kind, mediaID int) (string, error)
	List(ctx context.Context, userID int64, kind models.Kind) ([]models.Rating, error)
}

type ratingRepository struct {
	db DBTX
}

func NewRatingRepository(db DBTX) RatingRepository {
	return &ratingRepository{db: db}
}

var ratingTables = map[models.Kind]string{
	models.KindMovie:  "rated_movies",
	models.KindSeries: "rated_series",
	models.KindAnime:  "rated_anime",
}

func tableFor(kind models.Kind) (string, error) {
	table, ok := ratingTables[kind]
	if !ok {
		return "", fmt.Errorf("no rating table for media type %q", kind)
	}
	return table, nil
}

func ownedRow(userID int64, mediaID int) sq.Eq {
	return sq.Eq{"user_id": userID, "media_id": mediaID}
}

func (r *ratingRepository) Exists(ctx context.Context, userID int64, kind models.Kind, mediaID int) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	inner, args, err := psql.Select("1").From(table).Where(ownedRow(userID, mediaID)).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS ("+inner+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check if rating exists: %w", err)
	}
	return exists, nil
}

func (r *ratingRepository) InsertMovie(ctx context.Context, m *models.RatedMovie) error {
	return r.insert(ctx, "rated_movies", &m.Rating, map[string]any{
		"overview":   m.Overview,
		"director":   m.Director,
		"cast_names": m.Cast,
		"runtime":    m.Runtime,
		"budget":     m.Budget,
		"revenue":    m.Revenue,
	})
}

func (r *ratingRepository) InsertSeries(ctx context.Context, s *models.RatedSeries) error {
	return r.insert(ctx, "rated_series", &s.Rating, map[string]any{
		"overview":     s.Overview,
		"creator":      s.Creator,
		"cast_names":   s.Cast,
		"episodes":     s.Episodes,
		"status":       s.Status,
		"last_episode": s.LastEpisode,
	})
}

func (r *ratingRepository) InsertAnime(ctx context.Context, a *models.RatedAnime) error {
	return r.insert(ctx, "rated_anime", &a.Rating, map[string]any{
		"description": a.Description,
		"episodes":    a.Episodes,
		"status":      a.Status,
	})
}

// insert writes the shared rating columns plus extra and fills in the
// timestamps chosen by the database.
func (r *ratingRepository) insert(ctx context.Context, table string, base *models.Rating, extra map[string]any) error {
	values := map[string]any{
		"user_id":      base.UserID,
		"media_id":     base.MediaID,
		"title":        base.Title,
		"release_date": base.ReleaseDate,
		"rating":       base.Rating,
		"comment":      base.Comment,
	}
	for k, v := range extra {
		values[k] = v
	}

	query, args, err := psql.Insert(table).SetMap(values).Suffix("RETURNING created_at, updated_at").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert rating query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&base.CreatedAt, &base.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, translate(err))
	}
	return nil
}

func (r *ratingRepository) UpdateRating(ctx context.Context, userID int64, kind models.Kind, mediaID int, rating float64, comment *string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query, args, err := psql.Update(table).
		Set("rating", rating).
		Set("comment", comment).
		Set("updated_at", sq.Expr("now()")).
		Where(ownedRow(userID, mediaID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update rating query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ratingRepository) GetSeries(ctx context.Context, userID int64, mediaID int) (*models.RatedSeries, error) {
	query, args, err := psql.
		Select("user_id", "media_id", "title", "release_date", "rating", "comment", "created_at", "updated_at",
			"overview", "creator", "cast_names", "episodes", "status", "last_episode").
		From("rated_series").
		Where(ownedRow(userID, mediaID)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select series query: %w", err)
	}

	s := models.RatedSeries{Rating: models.Rating{Kind: models.KindSeries}}
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&s.UserID, &s.MediaID, &s.Title, &s.ReleaseDate, &s.Rating.Rating, &s.Comment, &s.CreatedAt, &s.UpdatedAt,
		&s.Overview, &s.Creator, &s.Cast, &s.Episodes, &s.Status, &s.LastEpisode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get rated series: %w", translate(err))
	}
	return &s, nil
}

// UpdateSeriesCredits sets creator and cast_names; nil arguments keep the
// stored value.
func (r *ratingRepository) UpdateSeriesCredits(ctx context.Context, userID int64, mediaID int, creator, cast *string) error {
	b := psql.Update("rated_series").Where(ownedRow(userID, mediaID))
	if creator != nil {
		b = b.Set("creator", *creator)
	}
	if cast != nil {
		b = b.Set("cast_names", *cast)
	}
	if creator == nil && cast == nil {
		return nil
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update series query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update series credits: %w", err)
	}
	return nil
}

// Delete removes the rating and returns the title it was stored with.
func (r *ratingRepository) Delete(ctx context.Context, userID int64, kind models.Kind, mediaID int) (string, error) {
	table, err := tableFor(kind)
	if err != nil {
		return "", err
	}

	query, args, err := psql.Delete(table).Where(ownedRow(userID, mediaID)).Suffix("RETURNING title").ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build delete rating query: %w", err)
	}

	var title string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&title); err != nil {
		return "", fmt.Errorf("failed to delete rating: %w", translate(err))
	}
	return title, nil
}

// List returns the user's ratings of one kind, most recently changed first.
func (r *ratingRepository) List(ctx context.Context, userID int64, kind models.Kind) ([]models.Rating, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Select("user_id", "media_id", "title", "release_date", "rating", "comment", "created_at", "updated_at").
		From(table).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC", "media_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list ratings query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		rt := models.Rating{Kind: kind}
		if err := rows.Scan(&rt.UserID, &rt.MediaID, &rt.Title, &rt.ReleaseDate, &rt.Rating, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		ratings = append(ratings, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating rows: %w", err)
	}
	return ratings, nil
}
