package inspire

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Strategy names accepted by NewFetcher.
const (
	StrategyBatched = "batched"
	StrategyQuery   = "query"
)

const (
	// DefaultBatchSize bounds the number of lookups in flight at once.
	DefaultBatchSize = 5

	// DefaultBatchDelay is the pause between consecutive batches.
	DefaultBatchDelay = 1000 * time.Millisecond
)

// ValidStrategies lists the supported strategy names.
var ValidStrategies = []string{StrategyBatched, StrategyQuery}

// Fetcher resolves identifiers into raw records.
type Fetcher interface {
	Fetch(ctx context.Context, ids []string) ([]Record, error)
}

// RecordGetter is the single-record half of Client.
type RecordGetter interface {
	GetRecord(ctx context.Context, id string) (*Record, error)
}

// Searcher is the search half of Client.
type Searcher interface {
	Search(ctx context.Context, query string, size int, fields []string) ([]Record, int, error)
}

// FetchOptions configures the fetch strategies.
type FetchOptions struct {
	BatchSize  int
	BatchDelay time.Duration
	PageSize   int
	Fields     []string
	Logger     *zap.Logger
}

// DefaultFetchOptions returns the options matching INSPIRE's rate limit.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		BatchSize:  DefaultBatchSize,
		BatchDelay: DefaultBatchDelay,
		PageSize:   MaxPageSize,
		Fields:     DefaultFields,
	}
}

// NewFetcher returns the fetch strategy with the given name.
func NewFetcher(strategy string, c *Client, opts FetchOptions) (Fetcher, error) {
	switch strategy {
	case "", StrategyBatched:
		return NewBatchFetcher(c, opts), nil
	case StrategyQuery:
		return NewQueryFetcher(c, opts), nil
	default:
		return nil, fmt.Errorf("invalid strategy %q: must be one of %s", strategy, strings.Join(ValidStrategies, ", "))
	}
}

// BatchFetcher looks up each identifier individually, a fixed-size group at
// a time, pausing between groups. Failed lookups are dropped.
type BatchFetcher struct {
	getter RecordGetter
	size   int
	delay  time.Duration
	logger *zap.Logger

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewBatchFetcher creates a batched-by-id fetcher.
func NewBatchFetcher(getter RecordGetter, opts FetchOptions) *BatchFetcher {
	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	delay := opts.BatchDelay
	if delay < 0 {
		delay = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchFetcher{
		getter: getter,
		size:   size,
		delay:  delay,
		logger: logger,
		sleep:  sleepContext,
	}
}

// Fetch resolves ids in batches. Results keep identifier order. It returns
// ErrFetchFailed only if ids is non-empty and every lookup failed.
func (f *BatchFetcher) Fetch(ctx context.Context, ids []string) ([]Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	records := make([]Record, 0, len(ids))
	var lastErr error

	for start := 0; start < len(ids); start += f.size {
		end := min(start+f.size, len(ids))
		batch := ids[start:end]

		f.logger.Debug("fetching batch",
			zap.Int("batch", start/f.size+1),
			zap.Strings("ids", batch))

		results := make([]*Record, len(batch))
		errs := make([]error, len(batch))

		var g errgroup.Group
		for i, id := range batch {
			g.Go(func() error {
				rec, err := f.getter.GetRecord(ctx, id)
				if err != nil {
					errs[i] = err
					return nil
				}
				results[i] = rec
				return nil
			})
		}
		_ = g.Wait()

		for i, rec := range results {
			if rec == nil {
				lastErr = errs[i]
				f.logger.Warn("dropping record",
					zap.String("id", batch[i]),
					zap.String("reason", dropReason(errs[i])),
					zap.Error(errs[i]))
				continue
			}
			records = append(records, *rec)
		}

		if end < len(ids) {
			if err := f.sleep(ctx, f.delay); err != nil {
				return records, err
			}
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: all %d lookups failed: %v", ErrFetchFailed, len(ids), lastErr)
	}
	return records, nil
}

// dropReason classifies a failed lookup for the log.
func dropReason(err error) string {
	switch {
	case IsNotFound(err):
		return "not_found"
	case IsRateLimited(err):
		return "rate_limited"
	default:
		return "error"
	}
}

// QueryFetcher resolves all identifiers with one search request.
type QueryFetcher struct {
	searcher Searcher
	pageSize int
	fields   []string
	logger   *zap.Logger
}

// NewQueryFetcher creates a single-query fetcher.
func NewQueryFetcher(searcher Searcher, opts FetchOptions) *QueryFetcher {
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	fields := opts.Fields
	if fields == nil {
		fields = DefaultFields
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryFetcher{
		searcher: searcher,
		pageSize: pageSize,
		fields:   fields,
		logger:   logger,
	}
}

// Fetch issues one OR query over ids. Any failure fails the whole fetch.
func (f *QueryFetcher) Fetch(ctx context.Context, ids []string) ([]Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	records, total, err := f.searcher.Search(ctx, QueryForIDs(ids), f.pageSize, f.fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if total > len(records) {
		f.logger.Warn("search result truncated",
			zap.Int("total", total),
			zap.Int("returned", len(records)))
	}
	return records, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
