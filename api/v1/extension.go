package v1

import (
	"github.com/kubev2v/parallel-queue/internal/models"
)

// NewQueueStatusFromModel converts a models.QueueStatus to an API QueueStatus.
func NewQueueStatusFromModel(m models.QueueStatus) QueueStatus {
	var state QueueStatusState
	switch m.State {
	case models.WorkerStateDraining:
		state = QueueStatusStateDraining
	case models.WorkerStateIdling:
		state = QueueStatusStateIdling
	case models.WorkerStateSuspended:
		state = QueueStatusStateSuspended
	case models.WorkerStateClosed:
		state = QueueStatusStateClosed
	default:
		state = QueueStatusStateStopped
	}

	return QueueStatus{
		Id:        m.ID.String(),
		Name:      m.Name,
		State:     state,
		Waiting:   m.Waiting,
		Capacity:  m.Capacity,
		IdleCount: m.IdleCount,
		IdleForMs: m.IdleFor.Milliseconds(),
		Stats: QueueStats{
			Enqueued:  m.Stats.Enqueued,
			Rejected:  m.Stats.Rejected,
			Executed:  m.Stats.Executed,
			Repeated:  m.Stats.Repeated,
			IdlePolls: m.Stats.IdlePolls,
			Panics:    m.Stats.Panics,
		},
	}
}

func (l *QueueList) FromModel(statuses []models.QueueStatus) {
	l.Queues = make([]QueueStatus, 0, len(statuses))
	for _, s := range statuses {
		l.Queues = append(l.Queues, NewQueueStatusFromModel(s))
	}
}
