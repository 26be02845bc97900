// Package main implements the shelf command: an HTTP API serving tasks and a
// lending library over a shared list-query pipeline.
//
// Usage:
//
//	# Start the server
//	shelf serve
//
//	# Start with a config file
//	shelf serve --config /etc/shelf/config.yaml
//
//	# Apply database migrations
//	shelf migrate up
package main

func main() {
	Execute()
}
