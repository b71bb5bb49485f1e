// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package services adapts server components to suture.Service.
//
// HTTPServerService turns ListenAndServe/Shutdown into a context-aware
// Serve. EngineService reloads the corpus on a ticker and swaps in the new
// engine. The dispatch pool implements suture.Service itself and needs no
// wrapper.
package services
