// Package metrics exports parallel queue activity to Prometheus.
//
// Observer implements pq.Observer with counters and a latency histogram. Track
// registers a handle with a collector that reads the queue depth on scrape.
//
//	m, err := metrics.New(prometheus.DefaultRegisterer)
//	h := pq.NewHandle(pq.WithName("sensors"), pq.WithObserver(m))
//	m.Track(h)
//
// # Exported Series
//
//	┌─────────────────────────────────┬───────────┬────────────────────────┐
//	│ Name                            │ Type      │ Labels                 │
//	├─────────────────────────────────┼───────────┼────────────────────────┤
//	│ pq_events_enqueued_total        │ counter   │ queue, position, origin│
//	│ pq_events_rejected_total        │ counter   │ queue, reason          │
//	│ pq_events_executed_total        │ counter   │ queue, result          │
//	│ pq_events_repeated_total        │ counter   │ queue                  │
//	│ pq_event_duration_seconds       │ histogram │ queue                  │
//	│ pq_idle_polls_total             │ counter   │ queue, result          │
//	│ pq_callback_panics_total        │ counter   │ queue                  │
//	│ pq_worker_state                 │ gauge     │ queue, state           │
//	│ pq_queue_waiting                │ gauge     │ queue                  │
//	│ pq_queue_capacity               │ gauge     │ queue                  │
//	│ pq_queue_idle_count             │ gauge     │ queue                  │
//	└─────────────────────────────────┴───────────┴────────────────────────┘
//
// pq_worker_state is 1 for the current state of a worker and 0 for the others.
package metrics
