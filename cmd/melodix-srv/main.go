package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/melodix-games/melodix/internal/buildinfo"
	"github.com/melodix-games/melodix/internal/cache/cachelru"
	"github.com/melodix-games/melodix/internal/catalog"
	"github.com/melodix-games/melodix/internal/database"
	prefDb "github.com/melodix-games/melodix/internal/database/guildpref/database"
	statDb "github.com/melodix-games/melodix/internal/database/stat/database"
	"github.com/melodix-games/melodix/internal/guess"
	"github.com/melodix-games/melodix/internal/logging"
	"github.com/melodix-games/melodix/internal/melodixbot"
	"github.com/melodix-games/melodix/internal/platform/console"
	"github.com/melodix-games/melodix/internal/server"
	"github.com/melodix-games/melodix/internal/shutdown"
)

var version string

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(os.Stdout, buildinfo.GreetingCLI, buildinfo.ProjectName, version, buildinfo.GithubURL)

	ctx, done := shutdown.New()
	defer done()

	config := melodixbot.Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if err := realMain(ctx, config, done); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, config melodixbot.Config, done func()) error {
	logger := logging.FromContext(ctx).Named("main.realMain")

	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}

	defer db.Close(ctx)

	prefCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	statCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	songs, err := catalog.LoadFromFile(config.CatalogFilePath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	srv, err := server.New(config.Port)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/health", server.HandleHealth(ctx))

	go func() {
		if err := srv.ServeHTTP(ctx, &http.Server{Handler: mux}); err != nil {
			logger.Errorf("srv.ServeHTTP: %v", err)
			done()
		}
	}()

	if config.Prof {
		go func() {
			if err := http.ListenAndServe(":"+config.ProfPort, nil); err != nil {
				logger.Errorf("pprof default server: %v", err)
				done()
			}
		}()
	}

	gateway := console.New()
	go func() {
		if err := gateway.Run(ctx); err != nil {
			logger.Errorf("console gateway: %v", err)
		}
		done()
	}()

	manager := melodixbot.NewManager(
		melodixbot.Platform{
			Gateway:   gateway,
			Voice:     gateway,
			Out:       gateway,
			Oracle:    guess.New(),
			Occupancy: gateway.Occupancy,
		},
		&config,
		prefDb.New(db, prefCache),
		statDb.New(db, statCache),
		songs,
	)

	if err := manager.Run(ctx); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	return nil
}
