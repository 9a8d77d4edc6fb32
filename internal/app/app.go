// Package app wires configuration, storage, services and the HTTP
// router into a runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/quinielago/quiniela-api/internal/config"
	"github.com/quinielago/quiniela-api/internal/domain/league"
	"github.com/quinielago/quiniela-api/internal/domain/match"
	"github.com/quinielago/quiniela-api/internal/domain/prediction"
	"github.com/quinielago/quiniela-api/internal/domain/user"
	cacherepo "github.com/quinielago/quiniela-api/internal/infrastructure/repository/cache"
	"github.com/quinielago/quiniela-api/internal/infrastructure/repository/postgres"
	jwttoken "github.com/quinielago/quiniela-api/internal/infrastructure/token/jwt"
	"github.com/quinielago/quiniela-api/internal/interfaces/httpapi"
	basecache "github.com/quinielago/quiniela-api/internal/platform/cache"
	idgen "github.com/quinielago/quiniela-api/internal/platform/id"
	"github.com/quinielago/quiniela-api/internal/platform/invitecode"
	"github.com/quinielago/quiniela-api/internal/platform/logging"
	"github.com/quinielago/quiniela-api/internal/usecase"
)

const dbPingTimeout = 5 * time.Second

// NewHTTPServer builds the API server. The returned cleanup closes the
// database pool and must run after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := db.Close

	var (
		leagueRepo     league.Repository     = postgres.NewLeagueRepository(db)
		userRepo       user.Repository       = postgres.NewUserRepository(db)
		matchRepo      match.Repository      = postgres.NewMatchRepository(db)
		predictionRepo prediction.Repository = postgres.NewPredictionRepository(db)
	)

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		leagueRepo = cacherepo.NewLeagueRepository(leagueRepo, store)
		matchRepo = cacherepo.NewMatchRepository(matchRepo, store)
		logger.Info("repository cache enabled", "ttl", cfg.CacheTTL.String())
	}

	tokens, err := jwttoken.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("build token manager: %w", err)
	}

	ids := idgen.NewRandomGenerator()

	handler := httpapi.NewHandler(
		usecase.NewAuthService(userRepo, tokens, ids),
		usecase.NewLeagueService(leagueRepo, userRepo, invitecode.NewGenerator(leagueRepo), ids, cfg.FrontendBaseURL),
		usecase.NewMatchService(leagueRepo, matchRepo),
		usecase.NewPredictionService(leagueRepo, matchRepo, predictionRepo, ids),
		usecase.NewScoringService(leagueRepo, matchRepo, predictionRepo, logger, cfg.ScoringWorkers),
		logger,
	)
	router := httpapi.NewRouter(handler, tokens, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBName(dbNameFromURL(dbURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
