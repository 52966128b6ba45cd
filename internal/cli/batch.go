package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/process"
	"github.com/spendlens/spendlens/internal/worker"
)

var (
	concurrency  int
	outputPath   string
	batchTimeout time.Duration
	batchRate    float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Process many transaction texts from a file in parallel",
	Long: `Batch reads transaction texts from a file (one per line, blank
lines and # comments skipped, duplicates dropped) and processes them
concurrently. Results are written as a JSON array.

Example:
  spendlens batch transactions.txt
  spendlens batch transactions.txt --concurrency 8 --out records.json
  spendlens batch transactions.txt --rate 100`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputPath, "out", "", "output JSON path (default: stdout)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&batchRate, "rate", 0, "max texts per second, 0 = unlimited")
	batchCmd.Flags().StringVar(&modelPath, "model", "", "trained model artifact path")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the processed-result cache")
	batchCmd.Flags().BoolVar(&noModel, "no-model", false, "skip the trained model, use rules only")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	if modelPath != "" {
		cfg.Classifier.ModelPath = modelPath
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Concurrency.Workers = concurrency
	if batchRate > 0 {
		cfg.Concurrency.Rate = batchRate
	}

	logger := newLogger()
	store := loadStore(cfg, logger)
	p := process.NewProcessor(cfg, store, logger)

	var limiter *worker.Limiter
	if cfg.Concurrency.Rate > 0 {
		limiter = worker.NewLimiter(cfg.Concurrency.Rate, cfg.Concurrency.Workers)
	}
	b := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, limiter)

	if verbose {
		fmt.Fprintf(os.Stderr, "Processing %s with %d workers\n", file, cfg.Concurrency.Workers)
	}

	results, err := b.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	records := make([]model.TransactionRecord, 0, len(results))
	completed, failed := 0, 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "error: %q: %v\n", res.Text, res.Err)
			records = append(records, model.FailedRecord(res.Text, res.Err.Error()))
			continue
		}
		if res.Record.Status == model.StatusFailed {
			failed++
		} else {
			completed++
		}
		records = append(records, res.Record)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if outputPath == "" {
		fmt.Println(string(data))
	} else if err := os.WriteFile(outputPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write records: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Processed %d texts: %d completed, %d failed\n", len(records), completed, failed)
	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "Output: %s\n", outputPath)
	}
	return nil
}
