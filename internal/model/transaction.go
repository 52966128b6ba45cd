package model

import "github.com/shopspring/decimal"

// TransactionRecord is the structured result of processing one raw
// transaction text. It is the only value the ingestion layer sees.
type TransactionRecord struct {
	Amount     *decimal.Decimal `json:"amount"`              // nil when no amount was found
	Date       string           `json:"date,omitempty"`      // ISO-8601 (YYYY-MM-DD), empty when absent
	Merchant   string           `json:"merchant,omitempty"`  // canonical merchant name, empty when absent
	Category   string           `json:"category"`            // never empty; "Uncategorized" when nothing matched
	Confidence float64          `json:"confidence"`          // [0,1]
	RawText    string           `json:"raw_text"`            // verbatim input
	Status     ProcessingStatus `json:"processing_status"`
	Error      string           `json:"error,omitempty"`     // set only when Status is failed
}

// ProcessingStatus indicates whether a transaction text could be processed
type ProcessingStatus string

const (
	StatusCompleted ProcessingStatus = "completed"
	StatusFailed    ProcessingStatus = "failed"
)

// FailedRecord builds the record returned for input that cannot be processed.
// Absent field values stay at their defaults; only the reason is captured.
func FailedRecord(rawText, reason string) TransactionRecord {
	return TransactionRecord{
		Category: CategoryUncategorized,
		RawText:  rawText,
		Status:   StatusFailed,
		Error:    reason,
	}
}

// CategoryUncategorized is the terminal fallback category
const CategoryUncategorized = "Uncategorized"
