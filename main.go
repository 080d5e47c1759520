package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/School-of-Solana/program-rishipunna/internal/auth"
	"github.com/School-of-Solana/program-rishipunna/internal/clock"
	"github.com/School-of-Solana/program-rishipunna/internal/config"
	"github.com/School-of-Solana/program-rishipunna/internal/httpserver"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger/memory"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger/postgres"
	redisstore "github.com/School-of-Solana/program-rishipunna/internal/ledger/redis"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger/sqlite"
	"github.com/School-of-Solana/program-rishipunna/internal/service"
	"github.com/School-of-Solana/program-rishipunna/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)
	if cfg.JWTSecret == config.DevJWTSecret {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
	}

	list, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	src, err := words.NewSource(cfg.WordSource, list, cfg.DailySalt)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build word source")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("failed to open store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("store close")
		}
	}()

	clk := clock.New()
	games, err := service.New(store, src, clk, cfg.CacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build game service")
	}
	authSvc := auth.New(auth.Config{
		Secret:       []byte(cfg.JWTSecret),
		TokenTTL:     cfg.JWTExpiry,
		ChallengeTTL: 5 * time.Minute,
	}, clk)

	srv := httpserver.New(httpserver.Options{
		Games:        games,
		Auth:         authSvc,
		Words:        list,
		CookieName:   cfg.CookieName,
		CookieSecure: cfg.CookieSecure,
		ClientOrigin: cfg.ClientOrigin,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", httpSrv.Addr).
			Str("store", cfg.Store).
			Str("words", cfg.WordSource).
			Int("answers", list.Len()).
			Msg("starting wordle server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server exited")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// openStore builds the ledger backend named by STORE.
func openStore(ctx context.Context, cfg *config.Config) (ledger.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memory.New(), nil
	case config.StoreSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath)
	case config.StoreRedis:
		rc := redisstore.DefaultConfig()
		rc.URL = cfg.RedisURL
		rc.RecordTTL = cfg.RecordTTL
		return redisstore.New(rc)
	case config.StorePostgres:
		return postgres.Open(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
