package fifo_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/parallel-queue/pkg/fifo"
)

func drain(q *fifo.Queue[int]) []int {
	var out []int
	for {
		v, ok := q.TryReceive()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

var _ = Describe("Queue", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("New", func() {
		It("should reject invalid capacities", func() {
			for _, c := range []int{-1, 0, fifo.MaxCapacity + 1} {
				q, err := fifo.New[int](c)
				Expect(err).To(MatchError(fifo.ErrInvalidCapacity))
				Expect(q).To(BeNil())
			}
		})

		It("should report its capacity", func() {
			q, err := fifo.New[int](4)
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Cap()).To(Equal(4))
			Expect(q.Len()).To(Equal(0))
		})
	})

	Describe("ordering", func() {
		// Given a mix of normal and front sends
		// When the queue is drained
		// Then front items come first in their own insertion order, then normal items
		It("should put front items ahead of normal items, FIFO among themselves", func() {
			q, _ := fifo.New[int](8)

			for _, v := range []int{1, 2} {
				ok, _ := q.TrySend(v, false)
				Expect(ok).To(BeTrue())
			}
			Expect(q.Send(ctx, 10, true, 0)).To(Succeed())
			Expect(q.Send(ctx, 3, false, 0)).To(Succeed())
			Expect(q.Send(ctx, 11, true, 0)).To(Succeed())

			Expect(drain(q)).To(Equal([]int{10, 11, 1, 2, 3}))
		})
	})

	Describe("TrySend", func() {
		It("should fail without waiting when full", func() {
			q, _ := fifo.New[int](1)
			ok, _ := q.TrySend(1, false)
			Expect(ok).To(BeTrue())

			start := time.Now()
			ok, woke := q.TrySend(2, true)
			Expect(ok).To(BeFalse())
			Expect(woke).To(BeFalse())
			Expect(time.Since(start)).To(BeNumerically("<", 10*time.Millisecond))
		})

		It("should report waking a parked receiver", func() {
			q, _ := fifo.New[int](1)

			peeked := make(chan int, 1)
			go func() {
				v, ok := q.Peek(ctx, -1)
				if ok {
					peeked <- v
				}
			}()

			// give the receiver time to park
			time.Sleep(50 * time.Millisecond)

			ok, woke := q.TrySend(7, false)
			Expect(ok).To(BeTrue())
			Expect(woke).To(BeTrue())
			Eventually(peeked).Should(Receive(Equal(7)))
		})
	})

	Describe("Send", func() {
		It("should time out when the queue stays full", func() {
			q, _ := fifo.New[int](1)
			Expect(q.Send(ctx, 1, false, 0)).To(Succeed())

			start := time.Now()
			err := q.Send(ctx, 2, false, 50*time.Millisecond)
			Expect(err).To(MatchError(fifo.ErrTimeout))
			Expect(time.Since(start)).To(BeNumerically(">=", 50*time.Millisecond))
			Expect(q.Len()).To(Equal(1))
		})

		It("should return ErrFull immediately with a zero timeout", func() {
			q, _ := fifo.New[int](1)
			Expect(q.Send(ctx, 1, false, 0)).To(Succeed())
			Expect(q.Send(ctx, 2, false, 0)).To(MatchError(fifo.ErrFull))
		})

		It("should complete once a receiver makes room", func() {
			q, _ := fifo.New[int](1)
			Expect(q.Send(ctx, 1, false, 0)).To(Succeed())

			done := make(chan error, 1)
			go func() {
				done <- q.Send(ctx, 2, false, time.Second)
			}()

			Consistently(done, 50*time.Millisecond).ShouldNot(Receive())
			v, ok := q.TryReceive()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(1))
			Eventually(done).Should(Receive(BeNil()))
			Expect(drain(q)).To(Equal([]int{2}))
		})

		It("should stop waiting when the context ends", func() {
			q, _ := fifo.New[int](1)
			Expect(q.Send(ctx, 1, false, 0)).To(Succeed())

			cctx, cancel := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() {
				done <- q.Send(cctx, 2, false, -1)
			}()
			cancel()
			Eventually(done).Should(Receive(MatchError(context.Canceled)))
		})
	})

	Describe("Peek", func() {
		It("should not remove the head item", func() {
			q, _ := fifo.New[int](2)
			Expect(q.Send(ctx, 5, false, 0)).To(Succeed())

			v, ok := q.Peek(ctx, 0)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(5))
			Expect(q.Len()).To(Equal(1))
		})

		It("should time out on an empty queue", func() {
			q, _ := fifo.New[int](2)

			start := time.Now()
			_, ok := q.Peek(ctx, 30*time.Millisecond)
			Expect(ok).To(BeFalse())
			Expect(time.Since(start)).To(BeNumerically(">=", 30*time.Millisecond))
		})

		It("should return early when an item arrives", func() {
			q, _ := fifo.New[int](2)

			go func() {
				time.Sleep(20 * time.Millisecond)
				_, _ = q.TrySend(9, false)
			}()

			v, ok := q.Peek(ctx, 5*time.Second)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(9))
		})

		It("should give up when the context ends", func() {
			q, _ := fifo.New[int](2)
			cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()

			_, ok := q.Peek(cctx, -1)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("should drop everything and unblock senders", func() {
			q, _ := fifo.New[int](2)
			Expect(q.Send(ctx, 1, false, 0)).To(Succeed())
			Expect(q.Send(ctx, 2, true, 0)).To(Succeed())

			done := make(chan error, 1)
			go func() {
				done <- q.Send(ctx, 3, false, time.Second)
			}()
			Consistently(done, 30*time.Millisecond).ShouldNot(Receive())

			Expect(q.Reset()).To(Equal(2))
			Eventually(done).Should(Receive(BeNil()))
			Expect(drain(q)).To(Equal([]int{3}))
		})
	})
})
