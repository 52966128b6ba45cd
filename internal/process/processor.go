package process

import (
	"encoding/json"
	"log"
	"math"
	"strings"
	"time"

	"github.com/spendlens/spendlens/internal/cache"
	"github.com/spendlens/spendlens/internal/classify"
	"github.com/spendlens/spendlens/internal/extract"
	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/textutil"
)

// Processor orchestrates the complete pipeline for one transaction:
// normalize, extract amount/date/merchant, classify
type Processor struct {
	amounts    *extract.AmountExtractor
	dates      *extract.DateExtractor
	merchants  *extract.MerchantExtractor
	classifier *classify.Classifier
	cache      cache.Cache // nil disables caching
	ttl        time.Duration
	logger     *log.Logger
}

// NewProcessor creates a processor from config. The store may be empty;
// classification falls back to rules until a model is loaded.
func NewProcessor(cfg *model.Config, store *classify.Store, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.Default()
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL)
	}

	rules := classify.NewRuleEngine(cfg.Classifier.RuleFloor)
	return &Processor{
		amounts:    extract.NewAmountExtractor(cfg.Extract),
		dates:      extract.NewDateExtractor(cfg.Extract),
		merchants:  extract.NewMerchantExtractor(cfg.Extract),
		classifier: classify.NewClassifier(store, rules, logger),
		cache:      c,
		ttl:        cfg.Cache.TTL,
		logger:     logger,
	}
}

// Process runs the full pipeline on raw transaction text. It always
// returns a record; failures surface in the record's Status and Error.
func (p *Processor) Process(rawText string) model.TransactionRecord {
	if strings.TrimSpace(rawText) == "" {
		return model.FailedRecord(rawText, "empty transaction text")
	}

	if p.cache != nil {
		key := cache.Key(rawText)
		if data, ok := p.cache.Get(key); ok {
			var rec model.TransactionRecord
			if err := json.Unmarshal(data, &rec); err == nil {
				return rec
			}
			// Corrupt entry: drop it and reprocess
			_ = p.cache.Delete(key)
		}
	}

	text := textutil.Normalize(rawText)
	if strings.TrimSpace(text) == "" {
		return model.FailedRecord(rawText, "no text content after normalization")
	}

	rec := model.TransactionRecord{
		RawText:  rawText,
		Category: model.CategoryUncategorized,
		Status:   model.StatusCompleted,
	}

	if amt, ok := p.amounts.Extract(text); ok {
		rec.Amount = &amt
	}
	if date, ok := p.dates.Extract(text); ok {
		rec.Date = date
	}
	if merchant, ok := p.merchants.Extract(text); ok {
		rec.Merchant = merchant
	}

	outcome := p.classifier.Classify(classify.Input{
		Text:     text,
		Amount:   rec.Amount,
		Merchant: rec.Merchant,
		Date:     rec.Date,
	})
	rec.Category = outcome.Prediction.Category
	rec.Confidence = round3(outcome.Prediction.Confidence)

	if p.cache != nil {
		if data, err := json.Marshal(rec); err == nil {
			_ = p.cache.Set(cache.Key(rawText), data, p.ttl)
		}
	}
	return rec
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
