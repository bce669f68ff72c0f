package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/akarpov/fex-go/internal/config"
	"github.com/akarpov/fex-go/internal/fexapi"
	"github.com/akarpov/fex-go/internal/session"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagUser       string
	flagPassword   string
	flagAnonymous  bool
	flagJSON       bool
	flagVerbose    bool
	flagQuiet      bool
)

// cfg holds the effective configuration loaded by PersistentPreRunE.
var cfg *config.Config

// errBadLoginArgs is the contradictory-intent error: no credentials while
// neither anonymous nor in a no-login mode.
var errBadLoginArgs = errors.New("bad login arguments, please verify")

// dialTimeout bounds connection establishment. There is no overall request
// timeout — file transfers can legitimately take minutes.
const dialTimeout = 10 * time.Second

// defaultHTTPClient returns an HTTP client suitable for both API calls and
// long-running file transfers.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: dialTimeout}).DialContext,
			TLSHandshakeTimeout: dialTimeout,
		},
	}
}

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fex-go",
		Short:   "FEX.net uploader",
		Long:    "A command-line uploader and share manager for the FEX.net file-hosting service.",
		Version: version,
		// Silence Cobra's default error/usage printing — we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			loaded, err := config.Load(flagConfigPath)
			if err != nil {
				return err
			}

			cfg = loaded

			if flagUser == "" {
				flagUser = cfg.Username
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "account username")
	cmd.PersistentFlags().StringVarP(&flagPassword, "password", "p", "", "account password")
	cmd.PersistentFlags().BoolVarP(&flagAnonymous, "anonymous", "a", false, "act without an account")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	cmd.AddCommand(newUploadCmd())
	cmd.AddCommand(newOwnCmd())
	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newFoldersCmd())
	cmd.AddCommand(newObjectsCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Colorized output when stderr is a terminal, plain text
// otherwise. --verbose and --quiet override the config level because CLI
// flags always win.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo

	if cfg != nil {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newAPIClient creates the FEX API client and its session store from the
// effective config.
func newAPIClient(logger *slog.Logger) (*fexapi.Client, *session.Store, error) {
	client, err := fexapi.NewClient(cfg.APIURL, defaultHTTPClient(), logger)
	if err != nil {
		return nil, nil, err
	}

	return client, session.NewStore(cfg.SessionDir, logger), nil
}

// objectURL renders the user-facing share URL for an object.
func objectURL(objectID string) string {
	return fmt.Sprintf("%s/#!%s", cfg.APIURL, objectID)
}

// folderURL renders the user-facing URL for a folder inside an object.
func folderURL(objectID, folderID string) string {
	return fmt.Sprintf("%s/#!%s/%s", cfg.APIURL, objectID, folderID)
}

// downloadURL renders the direct download URL for an uploaded file.
func downloadURL(objectID, uploadID string) string {
	return fmt.Sprintf("%s/load/%s/%s", cfg.APIURL, objectID, uploadID)
}
