// Package server provides the HTTP server of the pq service.
//
// The server uses the Gin web framework and serves the queue API and the
// Prometheus exposition endpoint.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server :8000                     │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Ginzap (request logging, "http" logger)                │  │
//	│  │  RecoveryWithZap (panic recovery with stack trace)      │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /api/v1   handlers registered via callback                   │
//	│  /metrics  Prometheus handler (optional)                      │
//	│  *         404 JSON error                                     │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
//   - dev: gin debug mode
//   - prod: gin release mode
//
// Any other mode is refused by NewServer.
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    v1.RegisterHandlers(router, handler)
//	}, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
//
//	// Blocks until Stop; a graceful stop returns nil
//	err = srv.Start(ctx)
//
//	// Waits for in-flight requests
//	srv.Stop(shutdownCtx)
package server
