package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/fdg312/nutrilog/internal/config"
	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/storage/factory"
	"github.com/fdg312/nutrilog/internal/tracker"
)

var (
	jsonOutput bool
	verbose    bool
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nutrictl",
		Short:         "Inspect and edit NutriLog state in the configured storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show storage diagnostics on stderr")

	rootCmd.AddCommand(newRemindersCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newChartCmd())

	return rootCmd
}

// session is the storage plus the entity store loaded from it.
type session struct {
	cfg   *config.Config
	kv    storage.KV
	store *tracker.Store
}

func openSession(ctx context.Context, stderr io.Writer) (*session, error) {
	cfg := config.Load()

	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(stderr, "", log.LstdFlags)
	}

	kv, _, err := factory.NewKV(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store := tracker.New(kv, tracker.Options{
		Stats: storage.UserStats{
			Steps:          cfg.StatsSeed.Steps,
			CaloriesBurned: cfg.StatsSeed.CaloriesBurned,
			ActiveMinutes:  cfg.StatsSeed.ActiveMinutes,
		},
		Logger: logger,
	})
	store.Load(ctx)

	return &session{cfg: cfg, kv: kv, store: store}, nil
}

func (s *session) Close() error {
	return s.kv.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
