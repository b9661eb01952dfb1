package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/formsense/internal/model"
)

// Scanner classifies one target: a login page URL, an HTML file or a view
// structure dump
type Scanner interface {
	Scan(ctx context.Context, target string) (*model.Report, error)
}

// errNotScanned marks a target the pool never ran
var errNotScanned = errors.New("target not scanned")

// ScanJob is one batch target
type ScanJob struct {
	Index   int
	Target  string
	Scanner Scanner
}

// Execute runs the scan
func (j *ScanJob) Execute(ctx context.Context) Result {
	report, err := j.Scanner.Scan(ctx, j.Target)
	if err != nil {
		return &ScanResult{Index: j.Index, Target: j.Target, Error: err}
	}
	return &ScanResult{Index: j.Index, Target: j.Target, Report: report}
}

// ScanResult is the outcome of one ScanJob
type ScanResult struct {
	Index  int
	Target string
	Report *model.Report
	Error  error
}

// GetError returns the error from the scan result
func (r *ScanResult) GetError() error {
	return r.Error
}

// BatchProcessor scans many targets concurrently
type BatchProcessor struct {
	scanner     Scanner
	concurrency int
}

// NewBatchProcessor creates a batch processor running concurrency workers
func NewBatchProcessor(scanner Scanner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		scanner:     scanner,
		concurrency: concurrency,
	}
}

// ProcessTargets scans every target and returns the results in input order
func (b *BatchProcessor) ProcessTargets(ctx context.Context, targets []string) []*ScanResult {
	if len(targets) == 0 {
		return []*ScanResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	// Submit blocks on a full queue, so results are collected concurrently
	go func() {
		defer pool.Close()
		for i, target := range targets {
			pool.Submit(&ScanJob{Index: i, Target: target, Scanner: b.scanner})
		}
	}()
	results := pool.Collect()

	scanResults := make([]*ScanResult, len(targets))
	for _, result := range results {
		r := result.(*ScanResult)
		scanResults[r.Index] = r
	}

	// Targets never picked up before cancellation still get a result
	for i, r := range scanResults {
		if r == nil {
			scanResults[i] = &ScanResult{Index: i, Target: targets[i], Error: skippedError(ctx)}
		}
	}

	return scanResults
}

func skippedError(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errNotScanned
}

// ProcessFile reads targets from a file and scans them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ScanResult, error) {
	targets, err := ReadTargetsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}

	return b.ProcessTargets(ctx, targets), nil
}

// ReadTargetsFromFile reads one target per line. Blank lines and lines
// starting with # are skipped; duplicates are dropped.
func ReadTargetsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var targets []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			targets = append(targets, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return targets, nil
}
