// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package supervisor runs the long-lived parts of the server under suture v4.

The tree has three layers, each with its own failure counting:

	moviematch
	├── data-layer
	│   └── engine-service (scheduled corpus reload)
	├── query-layer
	│   └── dispatch-pool
	└── api-layer
	    └── http-server

Supervisor events are logged through sutureslog, bridged to zerolog by
logging.NewSlogLogger.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewEngineService(holder, engineCfg, logger))
	tree.AddQueryService(pool)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	err = tree.Serve(ctx)
*/
package supervisor
