package query

import (
	"log/slog"
)

// Defaults used when no Option overrides them.
const (
	DefaultLimit    = 10
	DefaultMaxLimit = 100
	// DefaultSortSpec orders newest documents first. Every store keeps
	// createdAt on each document, so the fallback order is always defined.
	DefaultSortSpec = "-createdAt"
	// IDField is the identifier every document carries; inclusion
	// projections always keep it.
	IDField = "id"
)

// Options configures a Builder.
type Options struct {
	DefaultLimit     int
	MaxLimit         int // 0 disables the cap
	DefaultSort      []SortKey
	UnknownOperators UnknownOperatorPolicy
	AllowedFields    map[string]struct{} // nil allows any projection
	Logger           *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the process-wide defaults.
func DefaultOptions() Options {
	return Options{
		DefaultLimit:     DefaultLimit,
		MaxLimit:         DefaultMaxLimit,
		DefaultSort:      ParseSort(DefaultSortSpec),
		UnknownOperators: UnknownOperatorIgnore,
	}
}

// WithDefaultLimit sets the page size used when limit is absent or invalid.
// Non-positive values are ignored.
func WithDefaultLimit(limit int) Option {
	return func(o *Options) {
		if limit > 0 {
			o.DefaultLimit = limit
		}
	}
}

// WithMaxLimit caps the page size. Zero disables the cap.
func WithMaxLimit(limit int) Option {
	return func(o *Options) {
		if limit >= 0 {
			o.MaxLimit = limit
		}
	}
}

// WithDefaultSort sets the fallback order from a sort expression such as
// "-createdAt" or "title,-copies". An expression without valid keys is
// ignored.
func WithDefaultSort(spec string) Option {
	return func(o *Options) {
		if keys := ParseSort(spec); len(keys) > 0 {
			o.DefaultSort = keys
		}
	}
}

// WithUnknownOperatorPolicy selects how Filter treats unsupported keys.
func WithUnknownOperatorPolicy(p UnknownOperatorPolicy) Option {
	return func(o *Options) {
		if p == UnknownOperatorIgnore || p == UnknownOperatorReject {
			o.UnknownOperators = p
		}
	}
}

// WithAllowedFields restricts Fields to the given names.
func WithAllowedFields(fields ...string) Option {
	return func(o *Options) {
		o.AllowedFields = make(map[string]struct{}, len(fields)+1)
		for _, f := range fields {
			o.AllowedFields[f] = struct{}{}
		}
		o.AllowedFields[IDField] = struct{}{}
	}
}

// WithLogger sets the logger used for dropped-parameter diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}
