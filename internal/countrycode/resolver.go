package countrycode

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent lookups in ResolveAll
const DefaultWorkers = 4

// Resolver corrects, excludes and resolves country names
type Resolver struct {
	tables    Tables
	authority Authority
	workers   int
	logger    *slog.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithWorkers sets the number of concurrent lookups
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger used to report unresolved names
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver. A nil authority means CountriesAuthority.
func NewResolver(tables Tables, authority Authority, opts ...Option) *Resolver {
	if authority == nil {
		authority = CountriesAuthority{}
	}
	r := &Resolver{
		tables:    tables,
		authority: authority,
		workers:   DefaultWorkers,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Correct returns the registry spelling of name, or name itself when no
// correction applies
func (r *Resolver) Correct(name string) string {
	if corrected, ok := r.tables.Corrections[name]; ok {
		return corrected
	}
	return name
}

// Excluded reports whether rows for name must be dropped
func (r *Resolver) Excluded(name string) bool {
	_, ok := r.tables.Exclusions[name]
	return ok
}

// Resolve looks up the alpha-3 code of an already corrected name.
// ok is false when the registry does not know the name.
func (r *Resolver) Resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return r.authority.Alpha3(name)
}

// ResolveAll resolves every distinct name concurrently and returns the codes
// found. Unresolved names are absent from the result and logged as warnings.
// The only error is context cancellation.
func (r *Resolver) ResolveAll(ctx context.Context, names []string) (map[string]string, error) {
	distinct := make(map[string]struct{}, len(names))
	for _, n := range names {
		distinct[n] = struct{}{}
	}
	ordered := make([]string, 0, len(distinct))
	for n := range distinct {
		ordered = append(ordered, n)
	}
	sort.Strings(ordered)

	var mu sync.Mutex
	codes := make(map[string]string, len(ordered))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, name := range ordered {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			code, ok := r.Resolve(name)
			if !ok {
				r.logger.WarnContext(ctx, "Country code unresolved", slog.String("country", name))
				return nil
			}
			mu.Lock()
			codes[name] = code
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return codes, nil
}
