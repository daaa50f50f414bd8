// Package handlers implements the HTTP API of the pq service.
//
// Handlers delegate to services.QueueService and focus on parameter parsing,
// response formatting and HTTP semantics.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Parameter parsing (api/v1 wrapper)                           │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                 services.QueueService                           │
//	└─────────────────────────────────────────────────────────────────┘
//
// Handler implements v1.ServerInterface:
//
//	v1.RegisterHandlers(router, handlers.New(queueSrv))
//
// # API Endpoints
//
//	┌────────┬──────────────────────────┬─────────────────────────────────────┐
//	│ Method │ Endpoint                 │ Description                         │
//	├────────┼──────────────────────────┼─────────────────────────────────────┤
//	│ GET    │ /queues                  │ List queue statuses                 │
//	│ GET    │ /queues/{name}           │ Get one queue status                │
//	│ POST   │ /queues/{name}/ping      │ Enqueue an empty event (?front=)    │
//	│ POST   │ /queues/{name}/purge     │ Drop queued events                  │
//	└────────┴──────────────────────────┴─────────────────────────────────────┘
//
// GET /queues/{name} response:
//
//	{
//	    "id": "2b7d...",
//	    "name": "PqTask",
//	    "state": "idling",       // stopped|draining|idling|suspended|closed
//	    "waiting": 0,
//	    "capacity": 32,
//	    "idleCount": 3,
//	    "idleForMs": 3000,
//	    "stats": {"enqueued": 12, "rejected": 0, "executed": 12,
//	              "repeated": 4, "idlePolls": 9, "panics": 0}
//	}
//
// POST /queues/{name}/ping answers 202 with the queue status. POST
// /queues/{name}/purge answers {"dropped": n}.
//
// # Error Mapping
//
//	┌──────────────────────────────────────────────┬──────┐
//	│ Error                                        │ Code │
//	├──────────────────────────────────────────────┼──────┤
//	│ invalid query parameter                      │ 400  │
//	│ QueueNotFoundError                           │ 404  │
//	│ QueueNotStarted / QueueClosed                │ 409  │
//	│ QueueFull / SendTimeout / purge timeout      │ 503  │
//	│ anything else                                │ 500  │
//	└──────────────────────────────────────────────┴──────┘
package handlers
