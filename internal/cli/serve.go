package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/minaret-labs/minaretd/internal/config"
	"github.com/minaret-labs/minaretd/internal/coordinator"
	"github.com/minaret-labs/minaretd/internal/db"
	"github.com/minaret-labs/minaretd/internal/http/api"
	"github.com/minaret-labs/minaretd/internal/http/api/endpoints"
	"github.com/minaret-labs/minaretd/internal/playback"
	"github.com/minaret-labs/minaretd/internal/redis"
	"github.com/minaret-labs/minaretd/internal/source"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the coordinator daemon and read-model API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	adapter := newAdapter(cfg)

	dispatcher, err := newDispatcher(cfg)
	if err != nil {
		return err
	}
	defer dispatcher.Close()

	opts := []coordinator.Option{}
	if cfg.RedisAddress != "" {
		opts = append(opts, coordinator.WithPlayedStore(
			redis.NewPlayedStore(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)))
	}
	if cfg.DatabaseURL != "" {
		if err := db.Init(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("db init: %w", err)
		}
		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			return fmt.Errorf("db migrate: %w", err)
		}
		opts = append(opts, coordinator.WithArchive(db.NewArchive()))
	}

	coord := coordinator.New(adapter, cfg.Toggles, cfg.Suhoor, dispatcher, opts...)
	go coord.Run(ctx)

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: newRouter(cfg, coord)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("address", cfg.ServerAddress).Str("source", cfg.Source).Msg("minaretd listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newAdapter(cfg *config.Config) source.Adapter {
	if cfg.Source == config.SourceAladhan {
		return source.NewAladhanAdapter(cfg.City, cfg.Country, cfg.Method)
	}
	return source.NewMOIAdapter()
}

func newDispatcher(cfg *config.Config) (playback.Dispatcher, error) {
	if cfg.MQTTBroker == "" {
		log.Warn().Msg("no MQTT broker configured, playback commands will be dropped")
		return playback.NopDispatcher{}, nil
	}
	return playback.NewMQTTDispatcher(cfg.MQTTBroker)
}

// newRouter assembles the gin engine: CORS, the public read model, and
// the token-guarded control surface.
func newRouter(cfg *config.Config, coord *coordinator.Coordinator) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods:    []string{"GET", "POST", "OPTIONS", "HEAD"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Accept"},
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		endpoints.ScheduleModule(coord, cfg.Source),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/control",
		Auth:      true,
		SecretKey: cfg.AdminSecret,
	},
		endpoints.ControlModule(coord),
	)

	return r
}
