package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cinelist/internal/cache"
	"cinelist/internal/config"
	"cinelist/internal/models"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const (
	anilistProvider   = "anilist"
	anilistMaxPerPage = 50
)

const anilistMediaFields = `
	id
	title { romaji english native }
	description(asHtml: false)
	startDate { year month day }
	coverImage { large medium }
	bannerImage
	averageScore
	popularity
	genres
	episodes
	status`

var (
	anilistPopularQuery = `
query ($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    pageInfo { currentPage hasNextPage }
    media(type: ANIME, sort: POPULARITY_DESC, isAdult: false) {` + anilistMediaFields + `
    }
  }
}`

	anilistSearchQuery = `
query ($page: Int, $perPage: Int, $search: String) {
  Page(page: $page, perPage: $perPage) {
    pageInfo { currentPage hasNextPage }
    media(type: ANIME, search: $search, isAdult: false) {` + anilistMediaFields + `
    }
  }
}`

	anilistDetailQuery = `
query ($id: Int) {
  Media(id: $id, type: ANIME) {` + anilistMediaFields + `
  }
}`

	anilistCreditsQuery = `
query ($id: Int) {
  Media(id: $id, type: ANIME) {
    id
    characters(sort: [ROLE, RELEVANCE], perPage: 25) {
      edges { role node { id name { full } } }
    }
    staff(sort: [RELEVANCE], perPage: 25) {
      edges { role node { id name { full } } }
    }
  }
}`
)

// GraphQLError reports a populated errors array in an AniList response.
type GraphQLError struct {
	Errors []models.AniListError
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

func (e *GraphQLError) notFound() bool {
	for _, err := range e.Errors {
		if err.Status == http.StatusNotFound || err.Message == "Not Found." {
			return true
		}
	}
	return false
}

func isAniListNotFound(err error) bool {
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		return gqlErr.notFound()
	}
	return isNotFound(err)
}

// AniListClient serves anime from the AniList GraphQL API, read-through
// cached. Like TMDBClient it never returns an error.
type AniListClient struct {
	url    string
	http   *upstream
	cache  *cache.Cache
	opts   ClientConfig
	logger *logrus.Logger
}

func NewAniListClient(cfg config.AniListConfig, clientCfg ClientConfig) *AniListClient {
	opts := clientCfg.withDefaults()
	return &AniListClient{
		url:    cfg.URL,
		http:   newUpstream(anilistProvider, opts.Upstream.WithRate(cfg.RatePerSecond), opts.Logger),
		cache:  opts.Cache,
		opts:   opts,
		logger: opts.Logger,
	}
}

func (c *AniListClient) Popular(ctx context.Context, kind models.Kind, limit int) []models.MediaSummary {
	if kind != models.KindAnime || limit <= 0 {
		return []models.MediaSummary{}
	}

	key := cache.Key(anilistProvider, "popular", string(kind), strconv.Itoa(limit))
	var cached []models.MediaSummary
	if c.cache.Get(ctx, key, &cached) {
		return cached
	}

	items, complete := c.fetchPages(ctx, "popular", anilistPopularQuery, map[string]any{}, limit)
	if complete && len(items) > 0 {
		c.cache.Put(ctx, key, items, c.opts.ListTTL)
	}
	return items
}

func (c *AniListClient) Search(ctx context.Context, kind models.Kind, query string, limit int) []models.MediaSummary {
	if kind != models.KindAnime || limit <= 0 {
		return []models.MediaSummary{}
	}

	key := cache.Key(anilistProvider, "search", string(kind), cache.HashQuery(query), strconv.Itoa(limit))
	var cached []models.MediaSummary
	if c.cache.Get(ctx, key, &cached) {
		return cached
	}

	items, complete := c.fetchPages(ctx, "search", anilistSearchQuery, map[string]any{"search": query}, limit)
	if complete && len(items) > 0 {
		c.cache.Put(ctx, key, items, c.opts.ListTTL)
	}
	return items
}

func (c *AniListClient) fetchPages(ctx context.Context, operation, query string, vars map[string]any, limit int) (items []models.MediaSummary, complete bool) {
	items = make([]models.MediaSummary, 0, limit)
	vars["perPage"] = min(limit, anilistMaxPerPage)

	for page := 1; len(items) < limit; page++ {
		vars["page"] = page

		var data models.AniListPageData
		if err := c.post(ctx, operation, query, vars, &data); err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"operation": operation,
				"page":      page,
			}).Error("Failed to fetch AniList page")
			return items, false
		}

		if len(data.Page.Media) == 0 {
			break
		}
		for _, m := range data.Page.Media {
			if len(items) == limit {
				break
			}
			items = append(items, anilistSummary(m))
		}
		if !data.Page.PageInfo.HasNextPage {
			break
		}
	}

	return items, true
}

// Detail returns nil when AniList has no anime with this id or cannot be
// reached. Neither outcome is cached.
func (c *AniListClient) Detail(ctx context.Context, kind models.Kind, id int) *models.MediaDetail {
	if kind != models.KindAnime {
		return nil
	}

	key := cache.Key(anilistProvider, "detail", string(kind), strconv.Itoa(id))
	var cached models.MediaDetail
	if c.cache.Get(ctx, key, &cached) {
		return &cached
	}

	media := c.media(ctx, "detail", anilistDetailQuery, id)
	if media == nil {
		return nil
	}

	detail := anilistDetail(*media)
	c.cache.Put(ctx, key, detail, c.opts.DetailTTL)
	return detail
}

// Credits lists the anime's characters as cast and its staff as crew.
func (c *AniListClient) Credits(ctx context.Context, kind models.Kind, id int) *models.Credits {
	if kind != models.KindAnime {
		return nil
	}

	key := cache.Key(anilistProvider, "credits", string(kind), strconv.Itoa(id))
	var cached models.Credits
	if c.cache.Get(ctx, key, &cached) {
		return &cached
	}

	media := c.media(ctx, "credits", anilistCreditsQuery, id)
	if media == nil {
		return nil
	}

	credits := anilistCredits(*media)
	c.cache.Put(ctx, key, credits, c.opts.DetailTTL)
	return credits
}

func (c *AniListClient) media(ctx context.Context, operation, query string, id int) *models.AniListMedia {
	var data models.AniListMediaData
	err := c.post(ctx, operation, query, map[string]any{"id": id}, &data)

	entry := c.logger.WithFields(logrus.Fields{
		"provider":  anilistProvider,
		"operation": operation,
		"id":        id,
	})
	switch {
	case err != nil && isAniListNotFound(err):
		entry.Info("Anime not found on AniList")
		return nil
	case err != nil:
		entry.WithError(err).Error("Failed to fetch from AniList")
		return nil
	case data.Media == nil:
		entry.Info("Anime not found on AniList")
		return nil
	}
	return data.Media
}

// post runs one GraphQL query and decodes its data into dst. Both the HTTP
// status and the errors array are checked; AniList reports some failures
// with status 200.
func (c *AniListClient) post(ctx context.Context, operation, query string, vars map[string]any, dst any) error {
	payload, err := json.Marshal(models.AniListRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to encode AniList request: %w", err)
	}

	body, err := c.http.do(ctx, operation, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			// error statuses still carry the GraphQL envelope
			var resp models.AniListResponse
			if json.Unmarshal([]byte(httpErr.Body), &resp) == nil && len(resp.Errors) > 0 {
				return fmt.Errorf("%w: %w", httpErr, &GraphQLError{Errors: resp.Errors})
			}
		}
		return err
	}

	var resp models.AniListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to decode AniList response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return &GraphQLError{Errors: resp.Errors}
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return fmt.Errorf("AniList response has no data")
	}

	if err := json.Unmarshal(resp.Data, dst); err != nil {
		return fmt.Errorf("failed to decode AniList data: %w", err)
	}
	return nil
}
