package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/classify"
	"github.com/spendlens/spendlens/internal/train"
)

var (
	trainSeed   int64
	reportPath  string
	trainDryRun bool
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train <dataset.json>",
	Short: "Train the category model from labeled examples",
	Long: `Train fits the category model from a JSON array of labeled
examples and saves the resulting artifact. Each example carries the
raw text plus ground-truth amount, merchant, date, and category:

  [
    {
      "raw_text": "WALMART SUPERCENTER purchase of $45.67",
      "true_amount": 45.67,
      "key_merchant": "Walmart",
      "true_category": "Groceries"
    }
  ]

The dataset needs at least two categories. Accuracy is estimated on a
stratified holdout and by cross validation before the final model is
refit on every example.

Example:
  spendlens train dataset.json
  spendlens train dataset.json --model ./model.json --report report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().StringVar(&modelPath, "model", "", "artifact output path (default: ~/.spendlens/category_model.json)")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 1, "random seed for the evaluation split")
	trainCmd.Flags().StringVar(&reportPath, "report", "", "write the training report JSON to this path")
	trainCmd.Flags().BoolVar(&trainDryRun, "dry-run", false, "train and evaluate without saving the artifact")
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if modelPath != "" {
		cfg.Classifier.ModelPath = modelPath
	}

	logger := newLogger()

	examples, err := train.LoadDataset(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Loaded %d examples from %s\n", len(examples), args[0])

	trainer := train.NewTrainer(*cfg, trainSeed, logger)
	m, report, err := trainer.Train(examples)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Categories: %d, features: %d\n", len(m.Labels), len(m.FeatureNames))
	if report.HoldoutExamples > 0 {
		fmt.Fprintf(os.Stderr, "Holdout accuracy: %.3f (%d examples)\n", report.HoldoutAccuracy, report.HoldoutExamples)
	}
	if report.CVFolds > 0 {
		fmt.Fprintf(os.Stderr, "%d-fold CV accuracy: %.3f\n", report.CVFolds, report.CVAccuracy)
	}

	if reportPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := os.WriteFile(reportPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report: %s\n", reportPath)
	}

	if trainDryRun {
		fmt.Fprintln(os.Stderr, "Dry run, artifact not saved")
		return nil
	}

	artifact, err := classify.NewArtifact(m)
	if err != nil {
		return fmt.Errorf("package model: %w", err)
	}
	if err := classify.SaveArtifact(artifact, cfg.Classifier.ModelPath); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Saved model %s to %s\n", artifact.Version, cfg.Classifier.ModelPath)
	return nil
}
