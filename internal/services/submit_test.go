package services_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/parallel-queue/internal/models"
	"github.com/kubev2v/parallel-queue/internal/services"
	srvErrors "github.com/kubev2v/parallel-queue/pkg/errors"
	"github.com/kubev2v/parallel-queue/pkg/pq"
)

var _ = Describe("Submit", func() {
	var (
		h *pq.Handle
		g *gate
	)

	BeforeEach(func() {
		g = newGate()
		h = pq.NewHandle(pq.WithName("submit"))
	})

	AfterEach(func() {
		g.open()
		h.Close()
	})

	It("should deliver the result of the work", func() {
		Expect(h.Start()).To(Succeed())

		f, err := services.Submit(context.Background(), h, func(ctx context.Context) (int, error) {
			return 42, nil
		})
		Expect(err).NotTo(HaveOccurred())
		Eventually(f.C()).Should(Receive(Equal(models.Result[int]{Data: 42})))
	})

	It("should deliver errors and panics", func() {
		Expect(h.Start()).To(Succeed())
		boom := errors.New("boom")

		f, err := services.Submit(context.Background(), h, func(context.Context) (string, error) {
			return "", boom
		})
		Expect(err).NotTo(HaveOccurred())
		var r models.Result[string]
		Eventually(f.C()).Should(Receive(&r))
		Expect(r.Err).To(MatchError(boom))

		f, err = services.Submit(context.Background(), h, func(context.Context) (string, error) {
			panic("work boom")
		})
		Expect(err).NotTo(HaveOccurred())
		Eventually(f.C()).Should(Receive(&r))
		Expect(r.Err).To(MatchError(ContainSubstring("work boom")))
		Expect(h.Stats().Panics).To(BeZero())
	})

	// Given a busy worker
	// When a submitted future is stopped before the worker reaches it
	// Then the work is skipped and the future reports the cancellation
	It("should skip stopped work", func() {
		Expect(h.Start()).To(Succeed())
		Expect(h.Post(g.hold, nil)).To(Succeed())

		ran := false
		f, err := services.Submit(context.Background(), h, func(context.Context) (bool, error) {
			ran = true
			return true, nil
		})
		Expect(err).NotTo(HaveOccurred())
		f.Stop()
		g.open()

		var r models.Result[bool]
		Eventually(f.C()).Should(Receive(&r))
		Expect(r.Err).To(MatchError(context.Canceled))
		Expect(ran).To(BeFalse())
	})

	// Given a busy worker with an event queued behind it
	// When work is submitted to the front
	// Then it runs before the queued event
	It("should run front submissions ahead of queued events", func() {
		Expect(h.Start()).To(Succeed())
		Expect(h.Post(g.hold, nil)).To(Succeed())
		Eventually(g.started).Should(Receive())

		order := make(chan string, 2)
		Expect(h.Post(func(*pq.Handle, any) pq.Result {
			order <- "queued"
			return pq.Complete
		}, nil)).To(Succeed())
		f, err := services.SubmitFront(context.Background(), h, func(context.Context) (int, error) {
			order <- "front"
			return h.Waiting(), nil
		})
		Expect(err).NotTo(HaveOccurred())
		g.open()

		Eventually(f.C()).Should(Receive(Equal(models.Result[int]{Data: 1})))
		Eventually(order).Should(Receive(Equal("front")))
		Eventually(order).Should(Receive(Equal("queued")))
	})

	It("should fail on a queue that is not started", func() {
		_, err := services.Submit(context.Background(), h, func(context.Context) (int, error) { return 0, nil })
		Expect(srvErrors.IsQueueNotStartedError(err)).To(BeTrue())
	})
})
