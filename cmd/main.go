package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/studyplan-backend/internal/app"
	"github.com/yungbote/studyplan-backend/internal/config"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

var rootCmd = &cobra.Command{
	Use:           "studyplan",
	Short:         "Study plan generation and adaptation backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if p, _ := cmd.Flags().GetString("config"); p != "" {
			return os.Setenv("STUDYPLAN_CONFIG", p)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()
		return app.Migrate(cmd.Context(), cfg, log)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load topics, quiz questions and code games from a YAML or JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()
		res, err := app.Seed(cmd.Context(), cfg, log, raw)
		if err != nil {
			return err
		}
		log.Info("seed complete",
			"topics_inserted", res.TopicsInserted,
			"topics_skipped", res.TopicsSkipped,
			"quiz_questions", res.QuizQuestions,
			"code_games", res.CodeGames,
		)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config YAML (overrides STUDYPLAN_CONFIG)")

	seedCmd.Flags().StringP("file", "f", "", "Seed document path")
	_ = seedCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func runServe(cmd *cobra.Command) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		log.Sync()
		return err
	}
	defer a.Close()

	return a.Run(cmd.Context())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
