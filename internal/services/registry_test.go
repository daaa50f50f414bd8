package services_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/parallel-queue/internal/models"
	"github.com/kubev2v/parallel-queue/internal/services"
	srvErrors "github.com/kubev2v/parallel-queue/pkg/errors"
	"github.com/kubev2v/parallel-queue/pkg/pq"
)

var _ = Describe("QueueService", func() {
	var (
		svc *services.QueueService
		g   *gate
	)

	BeforeEach(func() {
		svc = services.NewQueueService(pq.WithIdleInterval(pq.Milliseconds(20)))
		g = newGate()
	})

	AfterEach(func() {
		g.open()
		svc.Close()
	})

	Context("registration", func() {
		It("should create queues with the service options", func() {
			h, err := svc.Create(pq.Config{Name: "a", QueueCapacity: 4})
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Name).To(Equal("a"))
			Expect(h.QueueCapacity).To(Equal(4))
			Expect(h.IdleInterval).To(Equal(pq.Milliseconds(20)))
			Expect(h.SendTimeout).To(Equal(pq.Ticks(pq.DefaultSendTimeoutTicks)))
			Expect(h.Started()).To(BeFalse())

			got, err := svc.Get("a")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeIdenticalTo(h))
		})

		It("should refuse duplicate names and nil handles", func() {
			_, err := svc.Create(pq.Config{Name: "a"})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Create(pq.Config{Name: "a"})
			Expect(srvErrors.IsDuplicateQueueError(err)).To(BeTrue())
			Expect(srvErrors.IsInvalidHandleError(svc.Register(nil))).To(BeTrue())
		})

		It("should call the registration hooks", func() {
			var seen []string
			svc.OnRegister(func(h *pq.Handle) { seen = append(seen, h.Name) })

			_, err := svc.Create(pq.Config{Name: "a"})
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.Register(pq.NewHandle(pq.WithName("b")))).To(Succeed())
			_, err = svc.Create(pq.Config{Name: "a"})
			Expect(err).To(HaveOccurred())

			Expect(seen).To(Equal([]string{"a", "b"}))
		})

		It("should report unknown queues", func() {
			_, err := svc.Get("missing")
			Expect(srvErrors.IsQueueNotFoundError(err)).To(BeTrue())
			_, err = svc.Status("missing")
			Expect(srvErrors.IsQueueNotFoundError(err)).To(BeTrue())
			Expect(srvErrors.IsQueueNotFoundError(svc.Start("missing"))).To(BeTrue())
			Expect(srvErrors.IsQueueNotFoundError(svc.Ping("missing", false))).To(BeTrue())
			_, err = svc.Purge(context.Background(), "missing")
			Expect(srvErrors.IsQueueNotFoundError(err)).To(BeTrue())
		})
	})

	Context("lifecycle", func() {
		// Given three registered queues, one already running
		// When StartAll is called
		// Then the others are started and List reports them in registration order
		It("should start every queue and list them in order", func() {
			for _, name := range []string{"c", "a", "b"} {
				_, err := svc.Create(pq.Config{Name: name})
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(svc.Start("a")).To(Succeed())
			Expect(srvErrors.IsQueueAlreadyStartedError(svc.Start("a"))).To(BeTrue())

			Expect(svc.StartAll()).To(Succeed())

			list := svc.List()
			Expect(list).To(HaveLen(3))
			Expect([]string{list[0].Name, list[1].Name, list[2].Name}).To(Equal([]string{"c", "a", "b"}))
			for _, st := range list {
				Expect(st.ID.String()).NotTo(Equal("00000000-0000-0000-0000-000000000000"))
				Expect(st.Capacity).To(Equal(pq.DefaultQueueCapacity))
			}
			Eventually(func() models.WorkerState {
				st, _ := svc.Status("b")
				return st.State
			}).Should(Equal(models.WorkerStateSuspended))
		})

		It("should collect start failures", func() {
			_, err := svc.Create(pq.Config{Name: "broken", QueueCapacity: -1})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Create(pq.Config{Name: "fine"})
			Expect(err).NotTo(HaveOccurred())

			err = svc.StartAll()
			Expect(srvErrors.IsAllocationError(err)).To(BeTrue())

			fine, _ := svc.Status("fine")
			Expect(fine.ID.String()).NotTo(Equal("00000000-0000-0000-0000-000000000000"))
			broken, _ := svc.Status("broken")
			Expect(broken.State).To(Equal(models.WorkerStateStopped))
		})

		It("should close every queue", func() {
			_, err := svc.Create(pq.Config{Name: "a"})
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.StartAll()).To(Succeed())

			svc.Close()

			st, err := svc.Status("a")
			Expect(err).NotTo(HaveOccurred())
			Expect(st.State).To(Equal(models.WorkerStateClosed))
			Expect(srvErrors.IsQueueClosedError(svc.Ping("a", false))).To(BeTrue())
		})
	})

	Context("control", func() {
		var h *pq.Handle

		BeforeEach(func() {
			var err error
			h, err = svc.Create(pq.Config{Name: "ctl"}, pq.WithIdleCallback(func(*pq.Handle, any) pq.Result {
				return pq.RepeatLater
			}, nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.Start("ctl")).To(Succeed())
		})

		It("should reset the idle count on ping", func() {
			Eventually(func() uint64 {
				st, _ := svc.Status("ctl")
				return st.IdleCount
			}).Should(BeNumerically(">=", 3))

			Expect(h.Post(g.hold, nil)).To(Succeed())
			Expect(svc.Ping("ctl", true)).To(Succeed())
			Eventually(h.State).Should(Equal(pq.StateDraining))

			st, err := svc.Status("ctl")
			Expect(err).NotTo(HaveOccurred())
			Expect(st.IdleCount).To(BeZero())
			Expect(st.Waiting).To(BeNumerically("<=", 1))
			Expect(st.State).To(Equal(models.WorkerStateDraining))
			Expect(st.IdleFor).To(Equal(time.Duration(0)))
		})

		// Given a busy worker with three events queued behind it
		// When the queue is purged
		// Then the purge runs next on the worker and drops all three
		It("should purge from the worker", func() {
			Expect(h.Post(g.hold, nil)).To(Succeed())
			Eventually(g.started).Should(Receive())

			ran := make(chan struct{}, 3)
			for range 3 {
				Expect(h.Post(func(*pq.Handle, any) pq.Result {
					ran <- struct{}{}
					return pq.Complete
				}, nil)).To(Succeed())
			}

			dropped := make(chan int, 1)
			go func() {
				defer GinkgoRecover()
				n, err := svc.Purge(context.Background(), "ctl")
				Expect(err).NotTo(HaveOccurred())
				dropped <- n
			}()
			Consistently(dropped, 50*time.Millisecond).ShouldNot(Receive())

			g.open()
			Eventually(dropped).Should(Receive(Equal(3)))
			Consistently(ran, 50*time.Millisecond).ShouldNot(Receive())
		})

		// Given a busy worker with one event queued behind it
		// When the purge deadline passes before the worker is free
		// Then Purge fails and the abandoned purge never drops the queued event
		It("should give up waiting for the purge when the context ends", func() {
			Expect(h.Post(g.hold, nil)).To(Succeed())
			Eventually(g.started).Should(Receive())

			ran := make(chan struct{}, 1)
			Expect(h.Post(func(*pq.Handle, any) pq.Result {
				ran <- struct{}{}
				return pq.Complete
			}, nil)).To(Succeed())

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			_, err := svc.Purge(ctx, "ctl")
			Expect(err).To(MatchError(context.DeadlineExceeded))

			g.open()
			Eventually(ran).Should(Receive())
		})
	})
})
