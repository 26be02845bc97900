package postgres

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/kestrel-dev/shelf-api/internal/query"
)

const dialect = "postgres"

// Collection table columns.
const (
	colID        = "id"
	colDoc       = "doc"
	colCreatedAt = "created_at"
)

// createdAtField is the document field mirrored by the created_at column.
const createdAtField = "createdAt"

// Patterns selecting the strings ParseTime accepts, so the timestamptz
// casts below never fail on arbitrary text.
const (
	timestampPattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`
	datePattern      = `^\d{4}-\d{2}-\d{2}$`
)

// target is a JSON value addressed in SQL: node yields the jsonb value and
// text its text extraction.
type target struct {
	node exp.LiteralExpression
	text exp.LiteralExpression
}

// fieldTarget addresses field inside the doc column.
func fieldTarget(field string) target {
	path := jsonPath(field)
	return target{
		node: goqu.L("? #> ?", goqu.C(colDoc), path),
		text: goqu.L("? #>> ?", goqu.C(colDoc), path),
	}
}

// elementTarget addresses the current element of jsonb_array_elements(...) AS e(v).
var elementTarget = target{
	node: goqu.L("e.v"),
	text: goqu.L("e.v #>> '{}'"),
}

// jsonPath renders a dotted field name as a Postgres text array path.
func jsonPath(field string) string {
	return "{" + strings.ReplaceAll(field, ".", ",") + "}"
}

// whereExpression translates p into SQL. It returns nil for an empty
// predicate. The translation selects the documents for which p.Match
// reports true.
func whereExpression(p query.Predicate) (exp.Expression, error) {
	var all []exp.Expression
	for _, c := range p.All {
		e, err := conditionExpression(c)
		if err != nil {
			return nil, err
		}
		all = append(all, e)
	}

	if len(p.Any) > 0 {
		anyOf := make([]exp.Expression, 0, len(p.Any))
		for _, c := range p.Any {
			e, err := conditionExpression(c)
			if err != nil {
				return nil, err
			}
			anyOf = append(anyOf, e)
		}
		all = append(all, goqu.Or(anyOf...))
	}

	switch len(all) {
	case 0:
		return nil, nil
	case 1:
		return all[0], nil
	default:
		return goqu.And(all...), nil
	}
}

func conditionExpression(c query.Condition) (exp.Expression, error) {
	if !query.ValidField(c.Field) {
		return nil, fmt.Errorf("%w: %q", query.ErrInvalidField, c.Field)
	}
	if len(c.Values) == 0 {
		return goqu.L("FALSE"), nil
	}

	field := fieldTarget(c.Field)
	switch c.Op {
	case query.OpEq, query.OpIn, query.OpContains:
		return matchScalarOrElement(field, c), nil
	case query.OpNe:
		eq := query.Condition{Field: c.Field, Op: query.OpEq, Values: c.Values[:1]}
		return goqu.L("NOT COALESCE(?, FALSE)", matchScalarOrElement(field, eq)), nil
	case query.OpGt, query.OpGte, query.OpLt, query.OpLte:
		return orderingExpression(field, c), nil
	default:
		return nil, fmt.Errorf("%w: %q", query.ErrUnknownOperator, c.Op)
	}
}

// matchScalarOrElement matches a scalar field, or any scalar element of an
// array field.
func matchScalarOrElement(t target, c query.Condition) exp.Expression {
	elements := goqu.L(
		"EXISTS (SELECT 1 FROM jsonb_array_elements(CASE WHEN jsonb_typeof(?) = 'array' THEN ? END) AS e(v) WHERE ?)",
		t.node, t.node, matchScalar(elementTarget, c),
	)
	return goqu.Or(matchScalar(t, c), elements)
}

func matchScalar(t target, c query.Condition) exp.Expression {
	var e exp.Expression
	switch c.Op {
	case query.OpIn:
		e = t.text.In(c.Values)
	case query.OpContains:
		e = t.text.ILike("%" + escapeLike(c.Value()) + "%")
	default:
		e = t.text.Eq(c.Value())
	}
	return goqu.And(isScalar(t), e)
}

func isScalar(t target) exp.Expression {
	return goqu.L("jsonb_typeof(?) IN ('string', 'number', 'boolean')", t.node)
}

// orderingExpression compares by the kind of the condition value. Fields
// of another JSON type never match.
func orderingExpression(t target, c query.Condition) exp.Expression {
	raw := c.Value()

	var (
		lhs exp.LiteralExpression
		rhs any
	)
	switch c.Kind() {
	case query.KindNumber:
		n, _ := query.ParseNumber(raw)
		lhs = goqu.L("(CASE WHEN jsonb_typeof(?) = 'number' THEN (?)::numeric END)", t.node, t.text)
		rhs = n
	case query.KindTime:
		ts, _ := query.ParseTime(raw)
		lhs = goqu.L(
			"(CASE WHEN jsonb_typeof(?) <> 'string' THEN NULL WHEN ? ~ ? THEN (?)::timestamptz WHEN ? ~ ? THEN (? || 'T00:00:00Z')::timestamptz END)",
			t.node, t.text, timestampPattern, t.text, t.text, datePattern, t.text,
		)
		rhs = ts
	default:
		lhs = goqu.L(`((CASE WHEN jsonb_typeof(?) IN ('string', 'number', 'boolean') THEN ? END) COLLATE "C")`, t.node, t.text)
		rhs = raw
	}

	switch c.Op {
	case query.OpGt:
		return lhs.Gt(rhs)
	case query.OpGte:
		return lhs.Gte(rhs)
	case query.OpLt:
		return lhs.Lt(rhs)
	default:
		return lhs.Lte(rhs)
	}
}

// escapeLike escapes the LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orderExpressions renders sort keys, then id ascending as the tiebreaker.
// Missing fields sort first ascending and last descending.
func orderExpressions(keys []query.SortKey) []exp.OrderedExpression {
	out := make([]exp.OrderedExpression, 0, len(keys)+1)
	hasID := false
	for _, k := range keys {
		var col exp.Orderable
		switch k.Field {
		case query.IDField:
			col = goqu.C(colID)
			hasID = true
		case createdAtField:
			col = goqu.C(colCreatedAt)
		default:
			col = goqu.L("? #> ?", goqu.C(colDoc), jsonPath(k.Field))
		}
		if k.Desc {
			out = append(out, col.Desc().NullsLast())
		} else {
			out = append(out, col.Asc().NullsFirst())
		}
	}
	if !hasID {
		out = append(out, goqu.C(colID).Asc())
	}
	return out
}

// buildFindSQL renders the SELECT for q against table.
func buildFindSQL(table string, q query.Query) (string, error) {
	where, err := whereExpression(q.Predicate)
	if err != nil {
		return "", err
	}

	ds := goqu.Dialect(dialect).
		From(goqu.T(table)).
		Select(goqu.C(colDoc)).
		Order(orderExpressions(q.Sort)...)
	if where != nil {
		ds = ds.Where(where)
	}
	if q.Skip > 0 {
		ds = ds.Offset(uint(q.Skip))
	}
	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
	}

	sql, _, err := ds.ToSQL()
	if err != nil {
		return "", fmt.Errorf("failed to build find query: %w", err)
	}
	return sql, nil
}

// buildCountSQL renders the COUNT for p against table.
func buildCountSQL(table string, p query.Predicate) (string, error) {
	where, err := whereExpression(p)
	if err != nil {
		return "", err
	}

	ds := goqu.Dialect(dialect).
		From(goqu.T(table)).
		Select(goqu.COUNT(goqu.Star()))
	if where != nil {
		ds = ds.Where(where)
	}

	sql, _, err := ds.ToSQL()
	if err != nil {
		return "", fmt.Errorf("failed to build count query: %w", err)
	}
	return sql, nil
}
