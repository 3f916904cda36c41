package main

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/courtside/catalog"
	"github.com/RyanBlaney/courtside/config"
	"github.com/RyanBlaney/courtside/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

// ensureConfig loads configuration once and points the global logger at
// the command's stderr so reports on stdout stay clean.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		if path == "" {
			path = os.Getenv("COURTSIDE_CONFIG")
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if lvl := strings.TrimSpace(*c.logLevelFlag); lvl != "" {
			cfg.LogLevel = lvl
		}
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			c.configErr = err
			return
		}
		logging.SetGlobalLogger(logging.NewWriterLogger(cmd.ErrOrStderr(), level))
		c.config = cfg
	})
	return c.config, c.configErr
}

// openCatalog returns nil when no catalog path is configured.
func (c *commandContext) openCatalog() (*catalog.Store, error) {
	if c.config == nil || strings.TrimSpace(c.config.Catalog.Path) == "" {
		return nil, nil
	}
	return catalog.Open(c.config.Catalog.Path)
}

// withCatalog runs fn against the catalog when one is configured. Catalog
// failures are logged, never fatal to a detection run.
func (c *commandContext) withCatalog(fn func(*catalog.Store) error) {
	store, err := c.openCatalog()
	if err != nil {
		logging.Warn("Catalog unavailable", logging.Fields{"error": err.Error()})
		return
	}
	if store == nil {
		return
	}
	defer store.Close()
	if err := fn(store); err != nil {
		logging.Warn("Failed to record run", logging.Fields{"error": err.Error()})
	}
}

// openOutput returns stdout for "" or "-", otherwise creates path.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
