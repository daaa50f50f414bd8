// Package config defines the configuration structure of the pq service.
//
// Configuration is organized into logical sections (Server, Demo, Interrupts,
// Queues) and comes with functional option helpers in the style of optgen.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - HTTP server settings
//	├── Demo           - Built-in demo scenario
//	├── Interrupts     - Interrupt simulator
//	├── Queues         - Extra parallel queues to start
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// Server modes:
//   - prod: gin release mode
//   - dev: gin debug mode
//
// # Demo Configuration
//
// The demo starts queue "PqTask", lets it idle, enqueues a handful of
// self-repeating callbacks, then purges the queue from a front-inserted
// callback so the worker goes back to idle.
//
//	┌──────────────┬──────────┬──────────────────────────────────────────┐
//	│ Field        │ Default  │ Description                              │
//	├──────────────┼──────────┼──────────────────────────────────────────┤
//	│ Enabled      │ false    │ Run the demo scenario                    │
//	│ Queue        │ "PqTask" │ Name of the demo queue                   │
//	│ IdleInterval │ 1000ms   │ Idle poll period of the demo queue       │
//	│ SuspendAfter │ 5        │ Idle polls before the idle hook suspends │
//	│ IdleWait     │ 8.5s     │ Idle time before the first events        │
//	│ Pause        │ 900ms    │ Pause inside each demo callback          │
//	│ RunFor       │ 9s       │ Time the callbacks loop before the purge │
//	│ Settle       │ 8s       │ Time left to idle after the purge        │
//	└──────────────┴──────────┴──────────────────────────────────────────┘
//
// # Interrupts Configuration
//
//	┌──────────┬──────────┬──────────────────────────────────────────────┐
//	│ Field    │ Default  │ Description                                  │
//	├──────────┼──────────┼──────────────────────────────────────────────┤
//	│ Enabled  │ false    │ Post events from a simulated interrupt       │
//	│ Queue    │ "PqTask" │ Target queue                                 │
//	│ Rate     │ 5        │ Interrupts per second                        │
//	│ Burst    │ 1        │ Interrupts allowed back to back              │
//	└──────────┴──────────┴──────────────────────────────────────────────┘
//
// # Queues
//
// Each entry is a pq.Config. Durations accept "nowait", "forever", "<n> ticks",
// a bare number of milliseconds or a Go duration. A send-timeout of "forever"
// is rejected:
//
//	queues:
//	  - name: sensors
//	    capacity: 16
//	    idle-interval: 500ms
//	    send-timeout: 2 ticks
//
// # Usage Example
//
//	cfg := config.NewConfigurationWithOptionsAndDefaults(
//	    config.WithServer(config.Server{
//	        ServerMode: "prod",
//	        HTTPPort:   8080,
//	    }),
//	    config.WithLogLevel("info"),
//	)
//
// # Debug Logging
//
// DebugMap flattens the configuration for structured logging:
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
