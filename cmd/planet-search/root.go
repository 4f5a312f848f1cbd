package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sternrassler/swapi-planet-search/internal/config"
	"github.com/Sternrassler/swapi-planet-search/pkg/logging"
	"github.com/Sternrassler/swapi-planet-search/pkg/residents"
	"github.com/Sternrassler/swapi-planet-search/pkg/search"
	"github.com/Sternrassler/swapi-planet-search/pkg/swapi"
)

// app holds everything a subcommand needs once configuration is loaded.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger zerolog.Logger

	redis   *redis.Client
	client  *swapi.Client
	fetcher *residents.Fetcher
	ctrl    *search.Controller

	closed bool
}

func newApp() *app {
	return &app{v: viper.New()}
}

// execute runs root and then releases whatever PersistentPreRunE opened,
// also when the command fails.
func execute(ctx context.Context, a *app, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "planet-search",
		Short:         "Search a planet and list its residents",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.Setup(logging.Config{
				Level:  cfg.LogLevel,
				Pretty: cfg.LogPretty,
				Output: cmd.ErrOrStderr(),
			})
			return a.open(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ./.planet-search.yaml)")
	flags.String("base-url", swapi.DefaultBaseURL, "catalog root URL")
	flags.String("user-agent", "planet-search/"+Version, "User-Agent header")
	flags.Duration("timeout", 0, "per-request timeout (0 disables)")
	flags.Int("max-concurrency", residents.BatchSize, "parallel resident fetches per batch")
	flags.String("redis-addr", "", "Redis address for response revalidation (empty disables)")
	flags.Int("redis-db", 0, "Redis database number")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.Bool("log-pretty", false, "human-readable logs")

	for _, name := range []string{"base-url", "user-agent", "timeout", "max-concurrency", "redis-addr", "redis-db", "log-level", "log-pretty"} {
		key := flagKey(name)
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	root.AddCommand(
		newSearchCmd(a),
		newInteractiveCmd(a),
		newServeCmd(a),
	)
	return root
}

// open builds the client and controller, connecting to Redis when one is
// configured.
func (a *app) open(ctx context.Context) error {
	swapiCfg := a.cfg.SwapiConfig()

	if a.cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr: a.cfg.RedisAddr,
			DB:   a.cfg.RedisDB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", a.cfg.RedisAddr, err)
		}
		a.logger.Info().Str("addr", a.cfg.RedisAddr).Msg("Connected to Redis")
		swapiCfg.Redis = a.redis
	}

	client, err := swapi.New(swapiCfg)
	if err != nil {
		return fmt.Errorf("create catalog client: %w", err)
	}
	a.client = client

	a.fetcher = residents.NewFetcher(client, a.cfg.FetcherConfig())
	a.ctrl = a.newController()
	return nil
}

// newController returns a controller with its own state over the shared
// client and fetcher.
func (a *app) newController() *search.Controller {
	return search.New(a.client, a.fetcher, search.WithLogger(logging.NewLogger("search")))
}

// close is safe to call more than once.
func (a *app) close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	if a.client != nil {
		a.client.Close()
	}
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// flagKey maps a flag name to its config key, e.g. base-url to base_url.
func flagKey(name string) string {
	out := []byte(name)
	for i, c := range out {
		if c == '-' {
			out[i] = '_'
		}
	}
	return string(out)
}
