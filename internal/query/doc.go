// Package query turns the query string of a list request into a
// store-agnostic query and its pagination summary.
//
// A Builder is created per request from the raw parameters and refined by
// stages: Search, Filter, Sort, Paginate and Fields. The reserved keys
// searchTerm, sort, limit, page and fields drive those stages; every other
// key is a filter, either plain equality (priority=high) or a bracket
// operator (copies[gte]=2) from the fixed set eq, ne, gt, gte, lt, lte, in.
//
// The resulting Query is executed by a Collection. Predicate.Match defines
// the matching semantics every Collection implementation follows.
package query
