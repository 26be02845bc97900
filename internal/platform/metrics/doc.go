// Package metrics exposes Prometheus metrics for the HTTP API and for list
// queries against document collections.
//
// Metrics:
//   - shelf_http_requests_total: requests by method, route and status
//   - shelf_http_request_duration_seconds: request latency by method and route
//   - shelf_list_queries_total: list queries by collection and outcome
//   - shelf_list_query_duration_seconds: list query latency by collection
//   - shelf_list_query_results: documents returned per list query
package metrics
