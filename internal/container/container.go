package container

import (
	"context"
	"fmt"

	"cinelist/internal/auth"
	"cinelist/internal/cache"
	"cinelist/internal/config"
	"cinelist/internal/database"
	"cinelist/internal/handlers"
	"cinelist/internal/logger"
	"cinelist/internal/repository"
	"cinelist/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type Container struct {
	DB      *pgxpool.Pool
	Cache   *cache.Cache
	Logger  *logrus.Logger
	JWT     *auth.JWTManager
	TMDB    *services.TMDBClient
	AniList *services.AniListClient
	Catalog *services.Catalog

	UserService   *services.UserService
	RatingService *services.RatingService
	ListService   *services.ListService
	Handler       *handlers.Handler
}

func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	// Initialize logger first
	log := logger.Get()

	jwtManager, err := auth.NewJWTManager(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	db, err := database.Open(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// The cache never fails to open; an unreachable store means no caching.
	c := cache.Open(ctx, cfg.Cache, log)

	clientCfg := services.ClientConfig{
		Upstream:  cfg.Upstream,
		Cache:     c,
		ListTTL:   cfg.Cache.ListTTL,
		DetailTTL: cfg.Cache.DetailTTL,
		Logger:    log,
	}
	tmdb := services.NewTMDBClient(cfg.TMDB, clientCfg)
	anilist := services.NewAniListClient(cfg.AniList, clientCfg)
	catalog := services.NewCatalog(tmdb, tmdb, anilist, log)

	users := services.NewUserService(repository.NewUserRepository(db), jwtManager, log)
	ratings := services.NewRatingService(repository.NewRatingRepository(db), catalog, log)
	lists := services.NewListService(repository.NewListRepository(db), catalog, log)

	h := handlers.New(handlers.Deps{
		Catalog:      catalog,
		Ratings:      ratings,
		Lists:        lists,
		Users:        users,
		Tokens:       jwtManager,
		DB:           db,
		CacheBackend: c.Backend(),
		Logger:       log,
	})

	return &Container{
		DB:            db,
		Cache:         c,
		Logger:        log,
		JWT:           jwtManager,
		TMDB:          tmdb,
		AniList:       anilist,
		Catalog:       catalog,
		UserService:   users,
		RatingService: ratings,
		ListService:   lists,
		Handler:       h,
	}, nil
}

func (c *Container) Close() {
	if c.Cache != nil {
		c.Cache.Close()
	}
	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("Database connection closed")
	}
}
