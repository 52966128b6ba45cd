package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all tunable settings. The extraction constants are
// empirically chosen; they are exposed here rather than hard-coded so
// deployments can override them without a rebuild.
type Config struct {
	Extract     ExtractConfig     `yaml:"extract"`
	Features    FeatureConfig     `yaml:"features"`
	Classifier  ClassifierConfig  `yaml:"classifier"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// ExtractConfig tunes the field extractors
type ExtractConfig struct {
	AmountWindow     int     `yaml:"amount_window"`      // chars around a transaction keyword
	BalanceWindow    int     `yaml:"balance_window"`     // chars of context checked for balance keywords
	DateWindow       int     `yaml:"date_window"`        // chars around a date keyword
	MinPlausible     float64 `yaml:"min_plausible"`      // smallest fallback-phase amount accepted
	MaxPlausible     float64 `yaml:"max_plausible"`      // largest fallback-phase amount accepted
	MaxDateAgeYears  int     `yaml:"max_date_age_years"` // dates older than this are discarded
	MerchantMaxLines int     `yaml:"merchant_max_lines"` // lines scored by the merchant heuristic
}

// FeatureConfig tunes the text vectorizer built at training time
type FeatureConfig struct {
	VocabularySize int `yaml:"vocabulary_size"` // top-K n-grams kept
	MinDocFreq     int `yaml:"min_doc_freq"`    // n-grams seen in fewer docs are dropped
}

// ClassifierConfig tunes the tiered classifier
type ClassifierConfig struct {
	ModelPath       string  `yaml:"model_path"`       // trained artifact location
	RuleFloor       float64 `yaml:"rule_floor"`       // minimum rule-engine score to accept
	HoldoutFraction float64 `yaml:"holdout_fraction"` // training accuracy check split
}

// CacheConfig tunes the processed-result cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// ConcurrencyConfig tunes batch processing
type ConcurrencyConfig struct {
	Workers int     `yaml:"workers"`
	Rate    float64 `yaml:"rate"` // texts per second for batch runs, 0 = unlimited
}

// OutputConfig tunes CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			AmountWindow:     50,
			BalanceWindow:    30,
			DateWindow:       30,
			MinPlausible:     0.01,
			MaxPlausible:     100000,
			MaxDateAgeYears:  10,
			MerchantMaxLines: 8,
		},
		Features: FeatureConfig{
			VocabularySize: 100,
			MinDocFreq:     2,
		},
		Classifier: ClassifierConfig{
			ModelPath:       defaultModelPath(),
			RuleFloor:       0.3,
			HoldoutFraction: 0.2,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
			Rate:    0,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}

func defaultModelPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "category_model.json"
	}
	return filepath.Join(home, ".spendlens", "category_model.json")
}
