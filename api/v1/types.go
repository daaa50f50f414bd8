package v1

// QueueStatusState is the phase of a queue worker.
type QueueStatusState string

const (
	QueueStatusStateStopped   QueueStatusState = "stopped"
	QueueStatusStateDraining  QueueStatusState = "draining"
	QueueStatusStateIdling    QueueStatusState = "idling"
	QueueStatusStateSuspended QueueStatusState = "suspended"
	QueueStatusStateClosed    QueueStatusState = "closed"
)

// QueueStats are the lifetime counters of a queue.
type QueueStats struct {
	Enqueued  uint64 `json:"enqueued"`
	Rejected  uint64 `json:"rejected"`
	Executed  uint64 `json:"executed"`
	Repeated  uint64 `json:"repeated"`
	IdlePolls uint64 `json:"idlePolls"`
	Panics    uint64 `json:"panics"`
}

// QueueStatus defines model for QueueStatus.
type QueueStatus struct {
	Id        string           `json:"id"`
	Name      string           `json:"name"`
	State     QueueStatusState `json:"state"`
	Waiting   int              `json:"waiting"`
	Capacity  int              `json:"capacity"`
	IdleCount uint64           `json:"idleCount"`
	IdleForMs int64            `json:"idleForMs"`
	Stats     QueueStats       `json:"stats"`
}

// QueueList defines model for QueueList.
type QueueList struct {
	Queues []QueueStatus `json:"queues"`
}

// PurgeResult defines model for PurgeResult.
type PurgeResult struct {
	Dropped int `json:"dropped"`
}

// Error defines model for Error.
type Error struct {
	Error string `json:"error"`
}

// PingQueueParams defines parameters for PingQueue.
type PingQueueParams struct {
	// Front inserts the ping ahead of the queued events.
	Front *bool `form:"front" json:"front,omitempty"`
}
