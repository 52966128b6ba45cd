package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spendlens/spendlens/internal/model"
)

// Runner processes one raw transaction text into a record
type Runner interface {
	Process(rawText string) model.TransactionRecord
}

// ProcessJob processes a single transaction text
type ProcessJob struct {
	Text    string
	Runner  Runner
	Limiter *Limiter
}

// Execute runs the job, waiting on the limiter first when one is set
func (j *ProcessJob) Execute(ctx context.Context) Result {
	if err := j.Limiter.Wait(ctx); err != nil {
		return &ProcessResult{Text: j.Text, Err: err}
	}
	return &ProcessResult{
		Text:   j.Text,
		Record: j.Runner.Process(j.Text),
	}
}

// ProcessResult is the outcome of one transaction job. Extraction
// failures live in the record; Err is set only when the job itself
// could not run.
type ProcessResult struct {
	Text   string
	Record model.TransactionRecord
	Err    error
}

// GetError returns the job-level error, if any
func (r *ProcessResult) GetError() error {
	return r.Err
}

// BatchProcessor runs many transactions through a runner concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. limiter may be nil for
// unthrottled runs.
func NewBatchProcessor(runner Runner, concurrency int, limiter *Limiter) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessTexts processes the given texts concurrently. Result order is
// not guaranteed to match input order.
func (b *BatchProcessor) ProcessTexts(ctx context.Context, texts []string) []*ProcessResult {
	if len(texts) == 0 {
		return []*ProcessResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for _, text := range texts {
		pool.Submit(&ProcessJob{
			Text:    text,
			Runner:  b.runner,
			Limiter: b.limiter,
		})
	}

	results := pool.Wait()
	close(done)

	out := make([]*ProcessResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*ProcessResult))
	}
	return out
}

// ProcessFile reads transaction texts from a file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ProcessResult, error) {
	texts, err := ReadTextsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}
	return b.ProcessTexts(ctx, texts), nil
}

// ReadTextsFromFile reads transaction texts, one per line. Blank lines
// and # comments are skipped and duplicates are dropped.
func ReadTextsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var texts []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return texts, nil
}
