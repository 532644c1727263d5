package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/logger"
)

// NewImportCmd bulk-loads questions from a CSV file into the configured stores.
func NewImportCmd(configPath *string) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import questions from a CSV file (question,correct,wrong1,wrong2[,wrong3])",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, category, args[0])
		},
	}
	cmd.Flags().StringVar(&category, "category", string(domain.CategoryVocabulary), "target category (vocabulary, proverb, wago)")
	return cmd
}

func runImport(ctx context.Context, configPath, rawCategory, path string) error {
	category, err := domain.ParseCategory(rawCategory)
	if err != nil {
		return fmt.Errorf("%w: %q", err, rawCategory)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	questions, err := app.ParseCSV(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	d, err := buildDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	report, err := d.questions.ImportBulk(ctx, category, questions)
	if err != nil {
		return err
	}
	log.Info("import finished",
		zap.String("category", string(category)),
		zap.Int("imported", report.Imported),
		zap.Int("skipped_duplicate", report.SkippedDuplicate))
	return nil
}
