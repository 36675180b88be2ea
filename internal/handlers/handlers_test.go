package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cinelist/internal/auth"
	"cinelist/internal/config"
	"cinelist/internal/models"
	"cinelist/internal/services"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu     sync.Mutex
	limits map[models.Kind]int
}

func (f *fakeCatalog) FetchPopular(_ context.Context, kind models.Kind, limit int) ([]models.MediaSummary, error) {
	f.mu.Lock()
	f.limits[kind] = limit
	f.mu.Unlock()
	return []models.MediaSummary{{ID: 1, Kind: kind, Title: "Top " + string(kind)}}, nil
}

func (f *fakeCatalog) Search(_ context.Context, kind models.Kind, query string, limit int) ([]models.MediaSummary, error) {
	if strings.TrimSpace(query) == "" {
		return nil, services.ErrInvalidInput
	}
	f.mu.Lock()
	f.limits[kind] = limit
	f.mu.Unlock()
	return []models.MediaSummary{{ID: 2, Kind: kind, Title: query}}, nil
}

func (f *fakeCatalog) FetchDetail(_ context.Context, kind models.Kind, id int) (*models.MediaDetail, error) {
	if id == 603 {
		return &models.MediaDetail{MediaSummary: models.MediaSummary{ID: id, Kind: kind, Title: "The Matrix"}}, nil
	}
	return nil, nil
}

func (f *fakeCatalog) FetchCredits(_ context.Context, _ models.Kind, id int) (*models.Credits, error) {
	if id == 603 {
		return &models.Credits{ID: id, Cast: []models.CastMember{{Name: "Keanu Reeves"}}}, nil
	}
	return nil, nil
}

type fakeRatings struct {
	rated map[string]bool
}

func (f *fakeRatings) Rate(_ context.Context, userID int64, mediaType string, mediaID int, rating float64, comment *string) (*models.Rating, error) {
	if rating > 10 {
		return nil, services.ErrInvalidRating
	}
	key := fmt.Sprintf("%s/%d", mediaType, mediaID)
	if f.rated[key] {
		return nil, services.ErrAlreadyRated
	}
	f.rated[key] = true
	return &models.Rating{UserID: userID, Kind: models.Kind(mediaType), MediaID: mediaID, Title: "The Matrix", Rating: rating, Comment: comment}, nil
}

func (f *fakeRatings) UpdateRating(context.Context, int64, string, int, float64, *string) error {
	return services.ErrNotFound
}

func (f *fakeRatings) DeleteRating(context.Context, int64, string, int) (string, error) {
	return "The Matrix", nil
}

func (f *fakeRatings) ListRatings(_ context.Context, userID int64, mediaType string) ([]models.Rating, error) {
	if mediaType == "book" {
		return nil, services.ErrUnknownKind
	}
	return []models.Rating{{UserID: userID, MediaID: 603, Title: "The Matrix"}}, nil
}

type fakeLists struct{}

func (fakeLists) Create(_ context.Context, userID int64, name string) (*models.List, error) {
	return &models.List{ID: 1, UserID: userID, Name: name, Items: []models.ListItem{}}, nil
}

func (fakeLists) Lists(_ context.Context, userID int64) ([]models.List, error) {
	return []models.List{{ID: 1, UserID: userID, Name: "Weekend", Items: []models.ListItem{}}}, nil
}

func (fakeLists) Get(_ context.Context, userID, listID int64) (*models.List, error) {
	if listID != 1 {
		return nil, services.ErrNotFound
	}
	return &models.List{ID: 1, UserID: userID, Name: "Weekend", Items: []models.ListItem{}}, nil
}

func (fakeLists) Rename(_ context.Context, userID, listID int64, name string) (*models.List, error) {
	return &models.List{ID: listID, UserID: userID, Name: name}, nil
}

func (fakeLists) Delete(_ context.Context, _, listID int64) error {
	if listID != 1 {
		return services.ErrNotFound
	}
	return nil
}

func (fakeLists) AddItem(_ context.Context, _, listID int64, mediaType string, mediaID int) (*models.ListItem, error) {
	if mediaID == 603 {
		return nil, services.ErrListItemExists
	}
	return &models.ListItem{ID: 1, ListID: listID, Kind: models.Kind(mediaType), MediaID: mediaID, MediaTitle: "Akira"}, nil
}

func (fakeLists) RemoveItem(context.Context, int64, int64, string, int) error { return nil }

type fakeUsers struct {
	users map[int64]*models.User
}

func (f *fakeUsers) Register(_ context.Context, username, email, _ string) (*services.AuthResult, error) {
	if email == "taken@example.com" {
		return nil, services.ErrEmailTaken
	}
	return &services.AuthResult{AccessToken: "tok", TokenType: "bearer", User: &models.User{ID: 9, Username: username, Email: email}}, nil
}

func (f *fakeUsers) Login(context.Context, string, string) (*services.AuthResult, error) {
	return nil, services.ErrInvalidCredentials
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, services.ErrNotFound
}

func (f *fakeUsers) ListOthers(context.Context, int64) ([]models.UserPublic, error) {
	return []models.UserPublic{{ID: 2, Username: "bruno"}}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type testServer struct {
	handler http.Handler
	catalog *fakeCatalog
	jwt     *auth.JWTManager
}

func newTestServer(t *testing.T, db Pinger) *testServer {
	t.Helper()
	jwtManager, err := auth.NewJWTManager(config.AuthConfig{SecretKey: "test-secret", AccessTokenTTL: time.Hour})
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	catalog := &fakeCatalog{limits: map[models.Kind]int{}}
	h := New(Deps{
		Catalog:      catalog,
		Ratings:      &fakeRatings{rated: map[string]bool{}},
		Lists:        fakeLists{},
		Users:        &fakeUsers{users: map[int64]*models.User{1: {ID: 1, Username: "ana", Email: "ana@example.com"}}},
		Tokens:       jwtManager,
		DB:           db,
		CacheBackend: "memory",
		Logger:       logger,
	})

	return &testServer{
		handler: h.Routes(config.HTTPConfig{CORSOrigins: []string{"*"}}),
		catalog: catalog,
		jwt:     jwtManager,
	}
}

func (s *testServer) token(t *testing.T, userID int64) string {
	t.Helper()
	tok, err := s.jwt.GenerateToken(userID)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestRoot(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "API Online", decodeBody[messageResponse](t, rec).Message)
}

func TestNotFoundRoute(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not Found", decodeBody[errorResponse](t, rec).Detail)
}

func TestPopularByKind(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/series", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody[[]models.MediaSummary](t, rec)
	require.Len(t, items, 1)
	require.Equal(t, models.KindSeries, items[0].Kind)
	require.Equal(t, kindListLimit, s.catalog.limits[models.KindSeries])
}

func TestSearchByKind(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/anime/search/bebop", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "bebop", decodeBody[[]models.MediaSummary](t, rec)[0].Title)
	require.Equal(t, kindSearchLimit, s.catalog.limits[models.KindAnime])
}

func TestDetailAndCredits(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/movies/603", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "The Matrix", decodeBody[models.MediaDetail](t, rec).Title)

	rec = s.do(t, http.MethodGet, "/anime/9999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Media not found", decodeBody[errorResponse](t, rec).Detail)

	rec = s.do(t, http.MethodGet, "/movies/abc", "", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodGet, "/movies/603/credits", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Keanu Reeves", decodeBody[models.Credits](t, rec).Cast[0].Name)

	rec = s.do(t, http.MethodGet, "/series/1/credits", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMixedEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/media/popular", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[mixedResponse](t, rec)
	require.Equal(t, "Top movie", resp.Movies[0].Title)
	require.Equal(t, "Top series", resp.Series[0].Title)
	require.Equal(t, "Top anime", resp.Animes[0].Title)
	require.Equal(t, mixedLimit, s.catalog.limits[models.KindAnime])

	rec = s.do(t, http.MethodGet, "/media/search/akira", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[mixedResponse](t, rec)
	require.Len(t, resp.Movies, 1)
	require.Len(t, resp.Animes, 1)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = s.do(t, http.MethodGet, "/auth/me", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid token for a user that no longer exists
	rec = s.do(t, http.MethodGet, "/auth/me", s.token(t, 77), nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/auth/me", s.token(t, 1), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]models.User](t, rec)
	require.Equal(t, "ana", body["user"].Username)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{"name": "Ana", "email": "new@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "bearer", decodeBody[services.AuthResult](t, rec).TokenType)
	require.NotContains(t, rec.Body.String(), "password")

	rec = s.do(t, http.MethodPost, "/auth/register", "", map[string]string{"name": "Ana", "email": "taken@example.com", "password": "secret1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, services.ErrEmailTaken.Error(), decodeBody[errorResponse](t, rec).Detail)

	rec = s.do(t, http.MethodPost, "/auth/register", "", map[string]string{"name": "Ana", "email": "not-an-email", "password": "secret1"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "bad"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsersListing(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/users", s.token(t, 1), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "bruno", decodeBody[[]models.UserPublic](t, rec)[0].Username)
}

func TestRatingEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	tok := s.token(t, 1)

	rec := s.do(t, http.MethodPost, "/media/rate/movie/603", "", map[string]any{"rating": 9})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/media/rate/movie/603", tok, map[string]any{"rating": 9, "comment": "great"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), "'The Matrix' rated successfully")

	rec = s.do(t, http.MethodPost, "/media/rate/movie/603", tok, map[string]any{"rating": 9})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/media/rate/movie/604", tok, map[string]any{"rating": 11})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/media/rate/movie/604", tok, map[string]any{"comment": "no rating"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPut, "/media/rate/movie/605", tok, map[string]any{"rating": 5})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/media/rate/movie/603", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "removed from your ratings")

	rec = s.do(t, http.MethodGet, "/media/rated/movie", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]models.Rating](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/media/rated/book", tok, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	tok := s.token(t, 1)

	rec := s.do(t, http.MethodPost, "/lists", tok, map[string]string{"name": "Weekend"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "Weekend", decodeBody[models.List](t, rec).Name)

	rec = s.do(t, http.MethodPost, "/lists", tok, map[string]string{"name": ""})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodGet, "/lists", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]models.List](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/lists/2", tok, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPatch, "/lists/1", tok, map[string]string{"name": "Later"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Later", decodeBody[models.List](t, rec).Name)

	rec = s.do(t, http.MethodPost, "/lists/1/items", tok, map[string]any{"media_type": "anime", "media_id": 47})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "Akira", decodeBody[models.ListItem](t, rec).MediaTitle)

	rec = s.do(t, http.MethodPost, "/lists/1/items", tok, map[string]any{"media_type": "movie", "media_id": 603})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodDelete, "/lists/1/items/anime/47", tok, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/lists/1", tok, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, fakePinger{})
	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "memory", decodeBody[map[string]string](t, rec)["cache"])

	s = newTestServer(t, fakePinger{err: errors.New("connection refused")})
	rec = s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodGet, "/movies", "", nil)

	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "cinelist_http_requests_total")
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
	require.Equal(t, http.StatusNotFound, statusFor(errors.Join(errors.New("ctx"), services.ErrMediaNotFound)))
}
