// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Command server runs the MovieMatch HTTP API.

Startup order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog
 3. Corpus loader: CSV, DuckDB or MongoDB, optionally behind a circuit breaker
 4. Initial engine build; the process exits if it fails
 5. Dispatcher pool and per-session gate
 6. Chi router with CORS, rate limiting and Prometheus metrics
 7. Suture tree: engine refresh, dispatcher pool, HTTP server

The process stops on SIGINT or SIGTERM. In-flight requests get
SHUTDOWN_TIMEOUT to finish and queued queries fail with 503.

Example:

	export CORPUS_SOURCE=csv
	export MOVIES_CSV=data/movies.csv
	export RATINGS_CSV=data/ratings.csv
	./server
	curl 'localhost:8857/api/v1/recommendations?q=toy+story&limit=5'
*/
package main
