package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/tsimport/internal/logging"
	"github.com/JonMunkholm/tsimport/internal/metrics"
	"github.com/JonMunkholm/tsimport/internal/table"
	"github.com/JonMunkholm/tsimport/internal/tabular"
	"github.com/google/uuid"
)

// NoticeNoMissing is reported when interpolation was requested on a table
// without missing values.
const NoticeNoMissing = "No missing values found!"

// Loader is the tabular file reader the resolver delegates to.
// It returns either a table or an error, never both.
type Loader interface {
	Load(ctx context.Context, path string, cfg tabular.Config) (*table.Table, error)
}

// LoadResult is the outcome of one import. Exactly one of Table and Err is set.
type LoadResult struct {
	Table *table.Table
	Err   error

	// Notice is an informational message for the user; it is never an error.
	Notice string

	// Missing is the number of missing cells found before interpolation, and
	// Filled the number replaced. Both are zero when interpolation was not
	// requested.
	Missing int
	Filled  int
}

// OK reports whether the import produced a table.
func (r LoadResult) OK() bool {
	return r.Err == nil && r.Table != nil
}

// Resolver runs the options → config → table → interpolated table pipeline.
type Resolver struct {
	loader  Loader
	metrics *metrics.Metrics

	// countMissing is the missing-cell counting step.
	countMissing func(*table.Table) int
}

// NewResolver creates a resolver around loader. m may be nil.
func NewResolver(loader Loader, m *metrics.Metrics) *Resolver {
	return &Resolver{
		loader:       loader,
		metrics:      m,
		countMissing: (*table.Table).CountMissing,
	}
}

// Import resolves opts and loads path, interpolating if opts asks for it.
// Each call gets its own import id in the log context.
func (r *Resolver) Import(ctx context.Context, path string, opts ImportOptions) LoadResult {
	ctx = logging.ContextWithImportID(ctx, uuid.NewString())
	logger := logging.FromContext(ctx)
	logger.Debug("import options",
		"separator", opts.Separator.String(),
		"header_present", opts.HeaderPresent,
		"missing_token", opts.MissingValueToken,
		"interpolate", opts.InterpolateMissing,
	)

	start := time.Now()
	res := r.LoadWithInterpolation(ctx, path, Resolve(opts), opts.InterpolateMissing)

	outcome := metrics.OutcomeLoaded
	switch {
	case res.Err != nil:
		outcome = metrics.OutcomeFailed
		logger.Warn("import failed", "path", path, "error", res.Err)
	case res.Filled > 0:
		outcome = metrics.OutcomeInterpolated
		fallthrough
	default:
		logger.Info("import completed",
			"path", path,
			"table", res.Table.Name,
			"columns", len(res.Table.Columns),
			"rows", res.Table.Rows(),
			"missing", res.Missing,
			"filled", res.Filled,
		)
	}
	r.metrics.ObserveImport(outcome, time.Since(start))

	return res
}

// LoadWithInterpolation loads path with cfg and, if interpolate is set,
// linearly fills missing cells. Load errors are returned in the result
// unchanged and skip every later step.
func (r *Resolver) LoadWithInterpolation(ctx context.Context, path string, cfg tabular.Config, interpolate bool) LoadResult {
	t, err := r.loader.Load(ctx, path, cfg)
	if err != nil {
		return LoadResult{Err: err}
	}
	if t == nil {
		return LoadResult{Err: fmt.Errorf("loader returned no table for %s", path)}
	}

	if !interpolate {
		return LoadResult{Table: t}
	}

	missing := r.countMissing(t)
	if missing == 0 {
		return LoadResult{Table: t, Notice: NoticeNoMissing}
	}

	out, filled := table.Interpolate(t)
	r.metrics.AddMissing(missing, filled)

	return LoadResult{
		Table:   out,
		Missing: missing,
		Filled:  filled,
		Notice:  fmt.Sprintf("Found %d missing values in total\nlinearly interpolating through..", missing),
	}
}
