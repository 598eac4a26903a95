package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"imagerater/internal/client"
	"imagerater/internal/config"
	"imagerater/internal/logger"
	"imagerater/internal/model"
	"imagerater/internal/rater"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	apiURL   string
	userName string
	filter   string
	verbose  bool

	log *logger.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ratectl",
	Short: "Page through images and rate them from the terminal",
	Long: `ratectl talks to the image rating server.

Run without a subcommand to start an interactive rating shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		log = logger.NewConsole(level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		return newShell(session, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
	},
}

func init() {
	cfg := config.LoadClient()

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", cfg.APIBaseURL, "Base URL of the rating server")
	rootCmd.PersistentFlags().StringVarP(&userName, "user", "u", cfg.User, "Name to rate as (env RATER_USER)")
	rootCmd.PersistentFlags().StringVarP(&filter, "filter", "f", string(model.FilterAll), "Images to list: all or unrated")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests")

	rootCmd.AddCommand(imagesCmd, rateCmd, summaryCmd, watchCmd)
}

func newClient() *client.Client {
	return client.New(strings.TrimRight(apiURL, "/"), nil, log.With("client"))
}

// newSession creates a session for the --user and --filter flags without
// loading anything.
func newSession() (*rater.Session, error) {
	f, err := model.ParseFilter(filter)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(userName) == "" {
		return nil, fmt.Errorf("no user name: pass --user or set RATER_USER")
	}
	return rater.NewSession(newClient(), userName,
		rater.WithFilter(f),
		rater.WithLogger(log.With("session")))
}

func openSession(ctx context.Context) (*rater.Session, error) {
	session, err := newSession()
	if err != nil {
		return nil, err
	}
	if err := session.Load(ctx, rater.Location{Page: 1}); err != nil {
		return nil, err
	}
	return session, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
