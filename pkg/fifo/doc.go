// Package fifo implements the bounded queue primitive used by pkg/pq.
//
// A Queue has a fixed capacity chosen at creation time. It is safe for any
// number of concurrent senders and receivers and never allocates on the hot
// path beyond the two lanes allocated by New.
//
// # Lanes
//
//	┌──────────────────────────────────────────────────────────┐
//	│                         Queue                            │
//	│                                                          │
//	│  express: [f1] [f2]          ◄── Send/TrySend(front=true)│
//	│  normal:  [n1] [n2] [n3]     ◄── Send/TrySend(front=false)│
//	│                                                          │
//	│  head order: f1 f2 n1 n2 n3                              │
//	└──────────────────────────────────────────────────────────┘
//
// Both lanes share one capacity. Front items overtake every normal item but
// keep their own insertion order.
//
// # Waiting
//
// Senders wait for space and receivers wait for items on broadcast channels
// that are closed and replaced on every state change, so a wait can be
// combined with a timer and a context in a single select:
//
//	┌────────────┬───────────────────────────────────────────┐
//	│ timeout    │ behaviour                                 │
//	├────────────┼───────────────────────────────────────────┤
//	│ < 0        │ wait until the condition holds or ctx ends│
//	│ 0          │ do not wait                               │
//	│ > 0        │ wait at most timeout                      │
//	└────────────┴───────────────────────────────────────────┘
//
// TrySend never waits and reports whether it released a parked receiver.
// pkg/pq uses that to yield after sends made from interrupt-like contexts.
package fifo
