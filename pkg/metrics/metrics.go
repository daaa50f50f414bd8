package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	srvErrors "github.com/kubev2v/parallel-queue/pkg/errors"
	"github.com/kubev2v/parallel-queue/pkg/pq"
)

const namespace = "pq"

var states = []pq.State{
	pq.StateStopped,
	pq.StateDraining,
	pq.StateIdling,
	pq.StateSuspended,
	pq.StateClosed,
}

// Observer is a pq.Observer backed by Prometheus collectors.
type Observer struct {
	enqueued  *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	executed  *prometheus.CounterVec
	repeated  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	idlePolls *prometheus.CounterVec
	panics    *prometheus.CounterVec
	state     *prometheus.GaugeVec
	depth     *depthCollector
}

var _ pq.Observer = (*Observer)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_enqueued_total",
			Help:      "Events accepted by a queue.",
		}, []string{"queue", "position", "origin"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_rejected_total",
			Help:      "Events refused by a queue.",
		}, []string{"queue", "reason"}),
		executed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_executed_total",
			Help:      "Events run by a worker.",
		}, []string{"queue", "result"}),
		repeated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_repeated_total",
			Help:      "Events re-enqueued after returning repeat_later.",
		}, []string{"queue"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_duration_seconds",
			Help:      "Time spent running the callbacks of one event.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"queue"}),
		idlePolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idle_polls_total",
			Help:      "Calls of the idle callback.",
		}, []string{"queue", "result"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callback_panics_total",
			Help:      "Callbacks that panicked.",
		}, []string{"queue"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_state",
			Help:      "Current state of a worker.",
		}, []string{"queue", "state"}),
		depth: newDepthCollector(),
	}

	for _, c := range []prometheus.Collector{
		o.enqueued, o.rejected, o.executed, o.repeated, o.duration,
		o.idlePolls, o.panics, o.state, o.depth,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Track adds h to the depth collector. Tracking the same handle twice is a no-op.
func (o *Observer) Track(h *pq.Handle) {
	o.depth.add(h)
}

// Untrack removes h from the depth collector.
func (o *Observer) Untrack(h *pq.Handle) {
	o.depth.remove(h)
}

func (o *Observer) Enqueued(queue string, toFront, fromISR bool) {
	position, origin := "back", "task"
	if toFront {
		position = "front"
	}
	if fromISR {
		origin = "isr"
	}
	o.enqueued.WithLabelValues(queue, position, origin).Inc()
}

func (o *Observer) Rejected(queue string, err error) {
	o.rejected.WithLabelValues(queue, Reason(err)).Inc()
}

func (o *Observer) Executed(queue string, elapsed time.Duration, result pq.Result) {
	o.executed.WithLabelValues(queue, result.String()).Inc()
	o.duration.WithLabelValues(queue).Observe(elapsed.Seconds())
}

func (o *Observer) Repeated(queue string) {
	o.repeated.WithLabelValues(queue).Inc()
}

func (o *Observer) IdlePolled(queue string, result pq.Result) {
	o.idlePolls.WithLabelValues(queue, result.String()).Inc()
}

func (o *Observer) Panicked(queue string, _ any) {
	o.panics.WithLabelValues(queue).Inc()
}

func (o *Observer) StateChanged(queue string, state pq.State) {
	for _, s := range states {
		v := 0.0
		if s == state {
			v = 1
		}
		o.state.WithLabelValues(queue, s.String()).Set(v)
	}
}

// Reason is the rejected_total label for err.
func Reason(err error) string {
	switch {
	case srvErrors.IsQueueFullError(err):
		return "full"
	case srvErrors.IsSendTimeoutError(err):
		return "timeout"
	case srvErrors.IsQueueClosedError(err):
		return "closed"
	default:
		return "other"
	}
}

// depthCollector reads the depth of tracked handles at scrape time.
type depthCollector struct {
	mu       sync.Mutex
	handles  map[*pq.Handle]struct{}
	waiting  *prometheus.Desc
	capacity *prometheus.Desc
	idle     *prometheus.Desc
}

func newDepthCollector() *depthCollector {
	labels := []string{"queue"}
	return &depthCollector{
		handles: make(map[*pq.Handle]struct{}),
		waiting: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "queue", "waiting"),
			"Events waiting in a queue.", labels, nil,
		),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "queue", "capacity"),
			"Capacity of a queue.", labels, nil,
		),
		idle: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "queue", "idle_count"),
			"Idle intervals elapsed since a queue became empty.", labels, nil,
		),
	}
}

func (d *depthCollector) add(h *pq.Handle) {
	if h == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handles[h] = struct{}{}
}

func (d *depthCollector) remove(h *pq.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.handles, h)
}

func (d *depthCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- d.waiting
	ch <- d.capacity
	ch <- d.idle
}

func (d *depthCollector) Collect(ch chan<- prometheus.Metric) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for h := range d.handles {
		ch <- prometheus.MustNewConstMetric(d.waiting, prometheus.GaugeValue, float64(h.Waiting()), h.Name)
		ch <- prometheus.MustNewConstMetric(d.capacity, prometheus.GaugeValue, float64(h.Capacity()), h.Name)
		ch <- prometheus.MustNewConstMetric(d.idle, prometheus.GaugeValue, float64(h.IdleCount()), h.Name)
	}
}
