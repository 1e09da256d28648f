package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/evotree/evotree/pkg/buildinfo"
	"github.com/evotree/evotree/pkg/cache"
	"github.com/evotree/evotree/pkg/config"
	everr "github.com/evotree/evotree/pkg/errors"
	"github.com/evotree/evotree/pkg/httputil"
	"github.com/evotree/evotree/pkg/integrations"
	"github.com/evotree/evotree/pkg/integrations/gbif"
	"github.com/evotree/evotree/pkg/lineage"
	"github.com/evotree/evotree/pkg/pipeline"
	"github.com/evotree/evotree/pkg/resolve"
	"github.com/evotree/evotree/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "evotree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	out        io.Writer
	in         io.Reader
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		in:     os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "evotree builds a tree of life from the species you add",
		Long:          `evotree resolves common or scientific species names against the GBIF backbone taxonomy, fetches each species' lineage and merges it into a persistent tree of life.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			c.out = cmd.OutOrStdout()
			c.in = cmd.InOrStdin()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/evotree/config.toml)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.interactiveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, path, exists, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if exists {
		c.Logger.Debug("config loaded", "path", path)
	} else {
		c.Logger.Debug("no config file, using defaults", "path", path)
	}
	return cfg, nil
}

// =============================================================================
// App - wired services for one command invocation
// =============================================================================

// app is everything a command needs, built from the configuration.
type app struct {
	cfg     *config.Config
	runner  *pipeline.Runner
	ws      *pipeline.Workspace
	store   *store.TreeStore
	closers []io.Closer
}

// open loads the configuration and wires caches, the GBIF client, the
// resolver, the lineage fetcher, the tree store and the workspace.
func (c *CLI) open(ctx context.Context) (*app, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)
	a := &app{cfg: cfg}
	b := &backends{cfg: cfg}

	responses, err := b.cache(ctx)
	if err != nil {
		b.close()
		return nil, err
	}
	persist, err := b.store(ctx)
	if err != nil {
		b.close()
		return nil, err
	}
	a.closers = b.closers

	keyer := cache.NewDefaultKeyer()
	if b.shared {
		keyer = cache.NewScopedKeyer(keyer, cfg.Redis.Prefix)
	}

	client := gbif.NewClient(responses, cfg.GBIF.CacheTTL.Duration).WithBaseURL(cfg.GBIF.BaseURL)
	client.WithHTTPClient(integrations.NewHTTPClient(cfg.GBIF.Timeout.Duration)).
		WithRetry(httputil.Policy{Attempts: cfg.GBIF.Attempts, Delay: cfg.GBIF.RetryDelay.Duration}).
		WithKeyer(keyer)

	resolver := resolve.New(client, resolve.Options{
		Aliases: resolve.NewAliasCache(responses, cfg.Cache.AliasTTL.Duration).WithKeyer(keyer),
		Logger:  logger,
	})
	a.runner = pipeline.NewRunner(resolver, lineage.New(client, logger), logger)

	a.store = store.New(persist, logger).WithKey(cfg.Store.Key).WithKeyer(keyer)
	saver := store.NewSaver(a.store, cfg.Store.Debounce.Duration, logger)
	a.ws = pipeline.Open(ctx, a.runner, a.store, saver, logger)

	logger.Debug("services ready",
		"gbif", client.BaseURL(),
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend,
		"key", a.store.Key())
	return a, nil
}

// Close flushes pending saves and releases backend connections.
func (a *app) Close() error {
	var errs []error
	if a.ws != nil {
		if err := a.ws.Close(); err != nil {
			errs = append(errs, fmt.Errorf("save tree: %w", err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// closeApp closes a and reports its error through errp unless the command
// already failed.
func closeApp(a *app, errp *error) {
	if err := a.Close(); err != nil && *errp == nil {
		*errp = err
	}
}

// userError logs err in full at debug level and returns the message meant
// for the terminal.
func (c *CLI) userError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	c.Logger.Debug("command failed", "code", everr.GetCode(err), "err", err)
	return errors.New(everr.UserMessage(err))
}

// backends opens the cache and store backends named by the configuration.
// One redis connection is shared when both use redis.
type backends struct {
	cfg     *config.Config
	redis   *cache.RedisCache
	closers []io.Closer
	// shared is set once a backend other processes can see is in use, so
	// keys get the configured prefix.
	shared bool
}

func (b *backends) cache(ctx context.Context) (cache.Cache, error) {
	switch b.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendFile:
		fc, err := cache.NewFileCache(responseCacheDir(b.cfg))
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		return fc, nil
	case config.BackendRedis:
		return b.redisCache(ctx)
	default:
		return cache.NewMemoryCache(), nil
	}
}

func (b *backends) store(ctx context.Context) (cache.Cache, error) {
	switch b.cfg.Store.Backend {
	case config.BackendMemory:
		return cache.NewMemoryCache(), nil
	case config.BackendRedis:
		return b.redisCache(ctx)
	case config.BackendMongo:
		mc, err := cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        b.cfg.Mongo.URI,
			Database:   b.cfg.Mongo.Database,
			Collection: b.cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		b.closers = append(b.closers, mc)
		b.shared = true
		return mc, nil
	default:
		fc, err := cache.NewFileCache(b.cfg.Store.Dir)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return fc, nil
	}
}

func (b *backends) redisCache(ctx context.Context) (*cache.RedisCache, error) {
	if b.redis != nil {
		return b.redis, nil
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     b.cfg.Redis.Addr,
		Password: b.cfg.Redis.Password,
		DB:       b.cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	b.redis = rc
	b.closers = append(b.closers, rc)
	b.shared = true
	return rc, nil
}

func (b *backends) close() {
	for _, c := range b.closers {
		_ = c.Close()
	}
}

// =============================================================================
// Paths
// =============================================================================

// responseCacheDir returns where the file cache backend keeps responses.
func responseCacheDir(cfg *config.Config) string {
	return filepath.Join(cfg.Cache.Dir, "responses")
}
