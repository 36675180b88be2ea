package services

import (
	"context"
	"testing"

	"cinelist/internal/models"

	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	lastLimit int
	lastQuery string
}

func (p *recordingProvider) Popular(_ context.Context, kind models.Kind, limit int) []models.MediaSummary {
	p.lastLimit = limit
	return []models.MediaSummary{{ID: 1, Kind: kind}}
}

func (p *recordingProvider) Search(_ context.Context, kind models.Kind, query string, limit int) []models.MediaSummary {
	p.lastQuery, p.lastLimit = query, limit
	return []models.MediaSummary{}
}

func (p *recordingProvider) Detail(context.Context, models.Kind, int) *models.MediaDetail { return nil }

func (p *recordingProvider) Credits(context.Context, models.Kind, int) *models.Credits { return nil }

func TestCatalog_RoutesAndClampsLimit(t *testing.T) {
	tmdb, anilist := &recordingProvider{}, &recordingProvider{}
	c := NewCatalog(tmdb, tmdb, anilist, quietLogger())
	ctx := context.Background()

	items, err := c.FetchPopular(ctx, models.KindAnime, 500)
	require.NoError(t, err)
	require.Equal(t, models.KindAnime, items[0].Kind)
	require.Equal(t, MaxLimit, anilist.lastLimit)

	_, err = c.FetchPopular(ctx, models.KindMovie, 0)
	require.NoError(t, err)
	require.Equal(t, 1, tmdb.lastLimit)
}

func TestCatalog_Validation(t *testing.T) {
	p := &recordingProvider{}
	c := NewCatalog(p, p, p, quietLogger())
	ctx := context.Background()

	_, err := c.FetchPopular(ctx, models.Kind("music"), 10)
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = c.Search(ctx, models.KindMovie, "   ", 10)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = c.FetchDetail(ctx, models.KindMovie, 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = c.Search(ctx, models.KindMovie, "  alien ", 10)
	require.NoError(t, err)
	require.Equal(t, "alien", p.lastQuery)
}

func TestCatalog_NotFoundIsNotAnError(t *testing.T) {
	p := &recordingProvider{}
	c := NewCatalog(p, p, p, quietLogger())

	d, err := c.FetchDetail(context.Background(), models.KindAnime, 9999)
	require.NoError(t, err)
	require.Nil(t, d)

	cr, err := c.FetchCredits(context.Background(), models.KindAnime, 9999)
	require.NoError(t, err)
	require.Nil(t, cr)
}
