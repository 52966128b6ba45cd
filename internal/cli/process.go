package cli

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/classify"
	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/process"
)

var (
	outJSON   string
	modelPath string
	noCache   bool
	noModel   bool
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <text>",
	Short: "Process a single transaction text into a structured record",
	Long: `Process extracts the amount, date, and merchant from raw
transaction text and assigns a spending category.

The trained model is used when available; otherwise the deterministic
rule engine decides, and amount heuristics are the last resort.

Example:
  spendlens process "WALMART SUPERCENTER purchase of $45.67 on 01/15/2024"
  spendlens process "Netflix subscription 15.99" --json record.json
  spendlens process "Coffee 4.50" --no-model`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&outJSON, "json", "", "write the record to this path instead of stdout")
	processCmd.Flags().StringVar(&modelPath, "model", "", "trained model artifact path (default: ~/.spendlens/category_model.json)")
	processCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the processed-result cache")
	processCmd.Flags().BoolVar(&noModel, "no-model", false, "skip the trained model, use rules only")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if modelPath != "" {
		cfg.Classifier.ModelPath = modelPath
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	logger := newLogger()
	store := loadStore(cfg, logger)
	p := process.NewProcessor(cfg, store, logger)

	rec := p.Process(args[0])
	return writeRecord(rec, outJSON)
}

// loadStore loads the trained artifact when present. A missing or
// unreadable artifact is not fatal; the rule tier covers it.
func loadStore(cfg *model.Config, logger *log.Logger) *classify.Store {
	store := classify.NewStore()
	if noModel {
		return store
	}
	if _, err := os.Stat(cfg.Classifier.ModelPath); err != nil {
		if verbose {
			logger.Printf("no trained model at %s, using rules", cfg.Classifier.ModelPath)
		}
		return store
	}
	if err := store.LoadFile(cfg.Classifier.ModelPath); err != nil {
		logger.Printf("failed to load model from %s: %v", cfg.Classifier.ModelPath, err)
	} else if verbose {
		logger.Printf("loaded model from %s", cfg.Classifier.ModelPath)
	}
	return store
}

func newLogger() *log.Logger {
	return log.New(os.Stderr, "spendlens: ", log.LstdFlags)
}

func writeRecord(rec model.TransactionRecord, path string) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}
	return nil
}
