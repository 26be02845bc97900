package query

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// Query is the refined, store-agnostic query produced by a Builder.
// Stores apply it as predicate, then sort, then Skip/Limit, then projection.
type Query struct {
	Predicate  Predicate
	Sort       []SortKey
	Skip       int
	Limit      int // 0 means no limit
	Projection Projection
}

// Finder executes a Query.
type Finder interface {
	Find(ctx context.Context, q Query) ([]Document, error)
}

// Counter counts documents matching a Predicate.
type Counter interface {
	Count(ctx context.Context, p Predicate) (int64, error)
}

// Collection is a queryable document set.
type Collection interface {
	Finder
	Counter
}

// Builder turns list-request parameters into a Query. It is a value: every
// stage returns an updated copy and leaves the receiver untouched, so a
// partially built Builder can be shared and extended independently.
//
//	b := query.New(params).Search("title").Filter().Sort().Paginate().Fields()
//	if err := b.Err(); err != nil { ... }
//	docs, summary, err := query.Run(ctx, collection, b)
type Builder struct {
	params Params
	opts   Options

	search     []Condition
	filters    []Condition
	sort       []SortKey
	sorted     bool
	window     Window
	paginated  bool
	projection Projection

	err error
}

// New creates a Builder over params. The initial query matches everything.
func New(params Params, opts ...Option) Builder {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if params == nil {
		params = Params{}
	}
	return Builder{params: params, opts: o}
}

// Params returns the raw parameters the builder reads.
func (b Builder) Params() Params {
	return b.params
}

// Err returns the first error recorded by a stage, if any.
func (b Builder) Err() error {
	return b.err
}

// Search matches documents where any of fields contains searchTerm,
// case-insensitively. It is a no-op without searchTerm and replaces any
// earlier search.
func (b Builder) Search(fields ...string) Builder {
	term := b.params.Get(KeySearchTerm)
	if term == "" {
		return b
	}

	conds := make([]Condition, 0, len(fields))
	for _, f := range fields {
		if !ValidField(f) {
			continue
		}
		conds = append(conds, Condition{Field: f, Op: OpContains, Values: []string{term}})
	}
	if len(conds) == 0 {
		return b
	}
	b.search = conds
	return b
}

// Filter converts every non-reserved parameter into a condition. It is
// recomputed from the parameters on each call, so calling it again yields
// the same predicate.
func (b Builder) Filter() Builder {
	keys := make([]string, 0, len(b.params))
	for k := range b.params {
		if !IsReserved(k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var conds []Condition
	for _, key := range keys {
		values := nonBlank(b.params[key])
		if len(values) == 0 {
			continue
		}

		field, op, err := parseFilterKey(key)
		if err != nil {
			if b.opts.UnknownOperators == UnknownOperatorReject {
				if b.err == nil {
					b.err = err
				}
				continue
			}
			b.opts.Logger.Debug("ignoring filter parameter",
				slog.String("key", key),
				slog.String("error", err.Error()))
			continue
		}

		switch {
		case op == OpIn:
			var list []string
			for _, v := range values {
				list = append(list, splitList(v)...)
			}
			if len(list) > 0 {
				conds = append(conds, Condition{Field: field, Op: OpIn, Values: list})
			}
		case op == OpEq && len(values) > 1:
			conds = append(conds, Condition{Field: field, Op: OpIn, Values: values})
		default:
			for _, v := range values {
				conds = append(conds, Condition{Field: field, Op: op, Values: []string{v}})
			}
		}
	}

	b.filters = conds
	return b
}

// Sort orders by the sort parameter, falling back to the configured default
// when it is absent or names no valid field.
func (b Builder) Sort() Builder {
	keys := ParseSort(strings.Join(b.params[KeySort], ","))
	if len(keys) == 0 {
		keys = b.opts.DefaultSort
	}
	b.sort = slices.Clone(keys)
	b.sorted = true
	return b
}

// Paginate limits the result to the page selected by page and limit.
func (b Builder) Paginate() Builder {
	b.window = resolveWindow(b.params, b.opts)
	b.paginated = true
	return b
}

// Fields projects the result onto the fields parameter. Names prefixed with
// "-" are excluded. Names outside the allow-list, when one is configured,
// are dropped.
func (b Builder) Fields() Builder {
	var include, exclude []string
	for _, item := range splitList(strings.Join(b.params[KeyFields], ",")) {
		name, excluded := strings.CutPrefix(item, "-")
		if !ValidField(name) || !b.allowed(name) {
			b.opts.Logger.Debug("ignoring projection field", slog.String("field", item))
			continue
		}
		if excluded {
			exclude = append(exclude, name)
		} else if !slices.Contains(include, name) {
			include = append(include, name)
		}
	}

	switch {
	case len(include) > 0:
		if !slices.Contains(include, IDField) {
			include = append(include, IDField)
		}
		b.projection = Projection{Include: include}
	case len(exclude) > 0:
		b.projection = Projection{Exclude: exclude}
	default:
		b.projection = Projection{}
	}
	return b
}

func (b Builder) allowed(field string) bool {
	if b.opts.AllowedFields == nil {
		return true
	}
	root, _, _ := strings.Cut(field, ".")
	_, ok := b.opts.AllowedFields[root]
	return ok
}

// Predicate is the search and filter criteria accumulated so far.
func (b Builder) Predicate() Predicate {
	return Predicate{
		All: slices.Clone(b.filters),
		Any: slices.Clone(b.search),
	}
}

// Window is the page and limit the request resolves to, whether or not
// Paginate has been applied.
func (b Builder) Window() Window {
	if b.paginated {
		return b.window
	}
	return resolveWindow(b.params, b.opts)
}

// Query assembles the stages applied so far. A paginated query without an
// explicit sort uses the default sort so pages are stable.
func (b Builder) Query() Query {
	q := Query{
		Predicate:  b.Predicate(),
		Projection: b.projection,
	}
	if b.sorted {
		q.Sort = slices.Clone(b.sort)
	}
	if b.paginated {
		q.Skip = b.window.Skip()
		q.Limit = b.window.Limit
		if len(q.Sort) == 0 {
			q.Sort = slices.Clone(b.opts.DefaultSort)
		}
	}
	return q
}

// CountTotal counts the documents matching the search and filter criteria,
// ignoring sort, window and projection, and derives the pagination summary.
func (b Builder) CountTotal(ctx context.Context, c Counter) (Summary, error) {
	total, err := c.Count(ctx, b.Predicate())
	if err != nil {
		return Summary{}, err
	}
	return NewSummary(total, b.Window()), nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
