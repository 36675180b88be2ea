package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"cinelist/internal/cache"
	"cinelist/internal/config"
	"cinelist/internal/models"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const (
	tmdbProvider = "tmdb"
	tmdbPageSize = 20
)

// TMDBClient serves movies and series from TMDB, read-through cached.
// Failures never leave this type: they are logged and turned into an empty
// slice or nil.
type TMDBClient struct {
	cfg    config.TMDBConfig
	http   *upstream
	cache  *cache.Cache
	opts   ClientConfig
	logger *logrus.Logger
}

func NewTMDBClient(cfg config.TMDBConfig, clientCfg ClientConfig) *TMDBClient {
	opts := clientCfg.withDefaults()
	return &TMDBClient{
		cfg:    cfg,
		http:   newUpstream(tmdbProvider, opts.Upstream.WithRate(cfg.RatePerSecond), opts.Logger),
		cache:  opts.Cache,
		opts:   opts,
		logger: opts.Logger,
	}
}

// segment is the TMDB path element for kind.
func (c *TMDBClient) segment(kind models.Kind) (string, bool) {
	switch kind {
	case models.KindMovie:
		return "movie", true
	case models.KindSeries:
		return "tv", true
	}
	return "", false
}

func (c *TMDBClient) Popular(ctx context.Context, kind models.Kind, limit int) []models.MediaSummary {
	seg, ok := c.segment(kind)
	if !ok || limit <= 0 {
		return []models.MediaSummary{}
	}

	key := cache.Key(tmdbProvider, "popular", seg, strconv.Itoa(limit))
	var cached []models.MediaSummary
	if c.cache.Get(ctx, key, &cached) {
		return cached
	}

	items, complete := c.fetchPages(ctx, "popular", "/"+seg+"/popular", url.Values{}, kind, limit)
	if complete && len(items) > 0 {
		c.cache.Put(ctx, key, items, c.opts.ListTTL)
	}
	return items
}

// Search returns up to limit titles matching query, most popular first.
func (c *TMDBClient) Search(ctx context.Context, kind models.Kind, query string, limit int) []models.MediaSummary {
	seg, ok := c.segment(kind)
	if !ok || limit <= 0 {
		return []models.MediaSummary{}
	}

	key := cache.Key(tmdbProvider, "search", seg, cache.HashQuery(query), strconv.Itoa(limit))
	var cached []models.MediaSummary
	if c.cache.Get(ctx, key, &cached) {
		return cached
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	items, complete := c.fetchPages(ctx, "search", "/search/"+seg, params, kind, limit)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Popularity > items[j].Popularity
	})

	if complete && len(items) > 0 {
		c.cache.Put(ctx, key, items, c.opts.ListTTL)
	}
	return items
}

// fetchPages walks the listing at path page by page until limit items are
// collected or the listing runs out. complete is false when a request failed
// and items holds only what came before it.
func (c *TMDBClient) fetchPages(ctx context.Context, operation, path string, params url.Values, kind models.Kind, limit int) (items []models.MediaSummary, complete bool) {
	items = make([]models.MediaSummary, 0, limit)

	for page := 1; len(items) < limit; page++ {
		params.Set("page", strconv.Itoa(page))

		var resp models.TMDBPage
		if err := c.get(ctx, operation, path, params, &resp); err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"path": path,
				"page": page,
			}).Error("Failed to fetch TMDB page")
			return items, false
		}

		if len(resp.Results) == 0 {
			break
		}
		for _, r := range resp.Results {
			if len(items) == limit {
				break
			}
			items = append(items, tmdbSummary(r, kind, c.cfg.ImageBaseURL))
		}
		if resp.TotalPages > 0 && page >= resp.TotalPages {
			break
		}
	}

	return items, true
}

// Detail returns nil when TMDB has no such title or cannot be reached.
func (c *TMDBClient) Detail(ctx context.Context, kind models.Kind, id int) *models.MediaDetail {
	seg, ok := c.segment(kind)
	if !ok {
		return nil
	}

	key := cache.Key(tmdbProvider, "detail", seg, strconv.Itoa(id))
	var cached models.MediaDetail
	if c.cache.Get(ctx, key, &cached) {
		return &cached
	}

	params := url.Values{}
	params.Set("language", "en-US")
	path := fmt.Sprintf("/%s/%d", seg, id)

	var detail *models.MediaDetail
	switch kind {
	case models.KindMovie:
		var resp models.TMDBMovieDetail
		if err := c.get(ctx, "detail", path, params, &resp); err != nil {
			c.logLookupError(err, "detail", kind, id)
			return nil
		}
		detail = tmdbMovieDetail(resp, c.cfg.ImageBaseURL)
	default:
		var resp models.TMDBSeriesDetail
		if err := c.get(ctx, "detail", path, params, &resp); err != nil {
			c.logLookupError(err, "detail", kind, id)
			return nil
		}
		detail = tmdbSeriesDetail(resp, c.cfg.ImageBaseURL)
	}

	c.cache.Put(ctx, key, detail, c.opts.DetailTTL)
	return detail
}

func (c *TMDBClient) Credits(ctx context.Context, kind models.Kind, id int) *models.Credits {
	seg, ok := c.segment(kind)
	if !ok {
		return nil
	}

	key := cache.Key(tmdbProvider, "credits", seg, strconv.Itoa(id))
	var cached models.Credits
	if c.cache.Get(ctx, key, &cached) {
		return &cached
	}

	params := url.Values{}
	if c.cfg.CreditsLanguage != "" {
		params.Set("language", c.cfg.CreditsLanguage)
	}

	var resp models.TMDBCredits
	if err := c.get(ctx, "credits", fmt.Sprintf("/%s/%d/credits", seg, id), params, &resp); err != nil {
		c.logLookupError(err, "credits", kind, id)
		return nil
	}

	credits := tmdbCredits(resp)
	c.cache.Put(ctx, key, credits, c.opts.DetailTTL)
	return credits
}

func (c *TMDBClient) logLookupError(err error, operation string, kind models.Kind, id int) {
	entry := c.logger.WithFields(logrus.Fields{
		"provider":  tmdbProvider,
		"operation": operation,
		"kind":      kind,
		"id":        id,
	})
	if isNotFound(err) {
		entry.Info("Title not found on TMDB")
		return
	}
	entry.WithError(err).Error("Failed to fetch from TMDB")
}

// get decodes the JSON at path into dst. The api_key is added here and kept
// out of every log line.
func (c *TMDBClient) get(ctx context.Context, operation, path string, params url.Values, dst any) error {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.cfg.APIKey)
	target := c.cfg.BaseURL + path + "?" + query.Encode()

	body, err := c.http.do(ctx, operation, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}
