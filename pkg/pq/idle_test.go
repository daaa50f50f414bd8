package pq_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/parallel-queue/pkg/pq"
)

type idleProbe struct {
	mu      sync.Mutex
	counts  []uint64
	idleFor []time.Duration
}

func (p *idleProbe) seen() []uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]uint64(nil), p.counts...)
}

// until returns an idle callback that keeps polling while the idle count is
// below limit and suspends afterwards.
func (p *idleProbe) until(limit uint64) pq.Callback {
	return func(h *pq.Handle, _ any) pq.Result {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.counts = append(p.counts, h.IdleCount())
		p.idleFor = append(p.idleFor, h.IdleFor())
		if h.IdleCount() < limit {
			return pq.RepeatLater
		}
		return pq.Complete
	}
}

var _ = Describe("Idle", func() {
	var (
		h     *pq.Handle
		probe *idleProbe
	)

	BeforeEach(func() {
		h = nil
		probe = &idleProbe{}
	})

	AfterEach(func() {
		h.Close()
	})

	// Given an idle callback that polls until the count reaches 4, interval 50ms
	// When the queue stays empty for longer than 250ms
	// Then the callback ran five times with counts 0..4 and the worker suspended
	It("should poll on every interval and then suspend", func() {
		h = pq.NewHandle(
			pq.WithIdleCallback(probe.until(4), nil),
			pq.WithIdleInterval(pq.Milliseconds(50)),
		)
		Expect(h.Start()).To(Succeed())

		Eventually(probe.seen, time.Second).Should(Equal([]uint64{0, 1, 2, 3, 4}))
		Eventually(h.State).Should(Equal(pq.StateSuspended))
		Consistently(probe.seen, 200*time.Millisecond).Should(HaveLen(5))
		Expect(h.Stats().IdlePolls).To(Equal(uint64(5)))

		// a new event wakes the worker and starts a fresh idle run
		Expect(h.Ping(false)).To(Succeed())
		Eventually(probe.seen, time.Second).Should(HaveLen(10))
		Expect(probe.seen()[5:]).To(Equal([]uint64{0, 1, 2, 3, 4}))
	})

	It("should stop once the callback returns Complete at count two", func() {
		h = pq.NewHandle(
			pq.WithIdleCallback(probe.until(2), nil),
			pq.WithIdleInterval(pq.Milliseconds(50)),
		)
		Expect(h.Start()).To(Succeed())

		Eventually(probe.seen, time.Second).Should(Equal([]uint64{0, 1, 2}))
		Consistently(probe.seen, 250*time.Millisecond).Should(HaveLen(3))
		Expect(h.State()).To(Equal(pq.StateSuspended))
	})

	It("should report an approximate idle duration", func() {
		h = pq.NewHandle(
			pq.WithIdleCallback(probe.until(3), nil),
			pq.WithIdleInterval(pq.Milliseconds(40)),
		)
		Expect(h.Start()).To(Succeed())

		Eventually(probe.seen, time.Second).Should(HaveLen(4))
		probe.mu.Lock()
		defer probe.mu.Unlock()
		Expect(probe.idleFor).To(Equal([]time.Duration{0, 40 * time.Millisecond, 80 * time.Millisecond, 120 * time.Millisecond}))
	})

	// Given a worker that has been idle for several intervals
	// When an event is drained
	// Then the callback observes an idle count of zero
	It("should reset the idle count when draining starts", func() {
		h = pq.NewHandle(
			pq.WithIdleCallback(probe.until(1000), nil),
			pq.WithIdleInterval(pq.Milliseconds(10)),
		)
		Expect(h.Start()).To(Succeed())
		Eventually(h.IdleCount, time.Second).Should(BeNumerically(">=", 3))

		counts := make(chan uint64, 1)
		Expect(h.Post(func(self *pq.Handle, _ any) pq.Result {
			counts <- self.IdleCount()
			return pq.Complete
		}, nil)).To(Succeed())
		Eventually(counts).Should(Receive(BeZero()))
	})

	It("should suspend straight away without an idle callback", func() {
		h = pq.NewHandle(pq.WithIdleInterval(pq.Milliseconds(10)))
		Expect(h.Start()).To(Succeed())

		Eventually(h.State).Should(Equal(pq.StateSuspended))
		Consistently(h.IdleCount, 100*time.Millisecond).Should(BeZero())
		Expect(h.Stats().IdlePolls).To(BeZero())
	})

	It("should suspend when the idle callback panics", func() {
		h = pq.NewHandle(
			pq.WithIdleCallback(func(*pq.Handle, any) pq.Result { panic("idle boom") }, nil),
			pq.WithIdleInterval(pq.Milliseconds(10)),
		)
		Expect(h.Start()).To(Succeed())

		Eventually(h.State).Should(Equal(pq.StateSuspended))
		Consistently(func() uint64 { return h.Stats().Panics }, 100*time.Millisecond).Should(Equal(uint64(1)))
	})

	It("should keep polling with an immediate interval", func() {
		h = pq.NewHandle(
			pq.WithIdleCallback(probe.until(50), nil),
			pq.WithIdleInterval(pq.Immediate()),
		)
		Expect(h.Start()).To(Succeed())

		Eventually(probe.seen, time.Second).Should(HaveLen(51))
		Eventually(h.State).Should(Equal(pq.StateSuspended))
	})
})
