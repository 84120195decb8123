/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Seednode/wavedial/game"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind         string
	create       bool
	envFile      string
	fps          int
	name         string
	orderedNames bool
	port         int
	prefix       string
	profile      bool
	room         string
	server       string
	timeout      time.Duration
	verbose      bool
	version      bool
	wsServer     string

	logger zerolog.Logger
}

func (c *Config) validate() error {
	if c.port < 0 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 0-65535 inclusive): %d", c.port)
	}
	if c.fps < 1 || c.fps > 240 {
		return fmt.Errorf("invalid fps (must be between 1-240 inclusive): %d", c.fps)
	}
	if c.create && c.room != "" {
		return errors.New("--create and --room are mutually exclusive")
	}
	if (c.create || c.room != "") && strings.TrimSpace(c.name) == "" {
		return errors.New("--name is required with --create or --room")
	}
	if _, err := c.wsBase(); err != nil {
		return err
	}
	return nil
}

// wsBase is the realtime endpoint root, derived from --server unless
// --ws-server is set.
func (c *Config) wsBase() (string, error) {
	if c.wsServer != "" {
		return strings.TrimSuffix(c.wsServer, "/"), nil
	}

	u, err := url.Parse(c.server)
	if err != nil {
		return "", fmt.Errorf("invalid --server: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid --server scheme %q (must be http or https)", u.Scheme)
	}

	return strings.TrimSuffix(u.String(), "/"), nil
}

func (c *Config) nameMatch() game.NameMatch {
	if c.orderedNames {
		return game.MatchOrdered
	}
	return game.MatchUnordered
}

// loadDotEnv reads path into the environment. A missing file is fine and
// variables already set win.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WAVEDIAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "wavedial",
		Short:         "A terminal and browser client for the dial party game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("env-file") && v.IsSet("env-file") {
				cfg.envFile = v.GetString("env-file")
			}
			if err := loadDotEnv(cfg.envFile); err != nil {
				return fmt.Errorf("load %s: %w", cfg.envFile, err)
			}

			fs := cmd.Flags()
			var err error
			fs.VisitAll(func(f *pflag.Flag) {
				_ = v.BindPFlag(f.Name, f)
				_ = v.BindEnv(f.Name)
				if !f.Changed && v.IsSet(f.Name) && err == nil {
					err = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
				}
			})
			if err != nil {
				return err
			}

			cfg.logger = newLogger(cfg)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.version {
				fmt.Fprintf(cmd.OutOrStdout(), "wavedial v%s\n", releaseVersion)

				return nil
			}

			if err := cfg.validate(); err != nil {
				return err
			}
			return Play(cmd.Context(), cfg, os.Stdin, os.Stdout)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "127.0.0.1", "address the companion page binds to (env: WAVEDIAL_BIND)")
	fs.BoolVar(&cfg.create, "create", false, "create a new room on startup (env: WAVEDIAL_CREATE)")
	fs.StringVar(&cfg.envFile, "env-file", ".env", "dotenv file to load before reading the environment (env: WAVEDIAL_ENV_FILE)")
	fs.IntVar(&cfg.fps, "fps", 60, "frame rate of the reveal animations (env: WAVEDIAL_FPS)")
	fs.StringVarP(&cfg.name, "name", "n", "", "player name (env: WAVEDIAL_NAME)")
	fs.BoolVar(&cfg.orderedNames, "ordered-names", false, "require the same join order when matching a new record (env: WAVEDIAL_ORDERED_NAMES)")
	fs.IntVarP(&cfg.port, "port", "p", 8090, "port the companion page listens on, 0 to disable (env: WAVEDIAL_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all companion URLs (env: WAVEDIAL_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: WAVEDIAL_PROFILE)")
	fs.StringVarP(&cfg.room, "room", "r", "", "join an existing room on startup (env: WAVEDIAL_ROOM)")
	fs.StringVarP(&cfg.server, "server", "s", "http://127.0.0.1:8000", "game server base URL (env: WAVEDIAL_SERVER)")
	fs.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "timeout for room HTTP requests (env: WAVEDIAL_TIMEOUT)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: WAVEDIAL_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: WAVEDIAL_VERSION)")
	fs.StringVar(&cfg.wsServer, "ws-server", "", "realtime base URL, derived from --server when empty (env: WAVEDIAL_WS_SERVER)")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("wavedial v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
