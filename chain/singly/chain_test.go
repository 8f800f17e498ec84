package singly_test

import (
	"errors"
	"math/rand"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/lowlevel/chain/singly"
	"github.com/sarchlab/lowlevel/mem"
)

var _ = Describe("Chain", func() {
	var (
		heap *mem.Heap
		c    *singly.Chain
	)

	BeforeEach(func() {
		heap = mem.NewHeap("Heap")
		c = singly.MakeBuilder().
			WithName("Chain").
			WithAllocator(heap).
			Build()
	})

	AfterEach(func() {
		c.Release()
		Expect(heap.MustBeEmpty()).To(Succeed())
	})

	appendAll := func(values ...int) {
		for _, v := range values {
			Expect(c.Append(v)).To(Succeed())
		}
	}

	It("should be empty when created", func() {
		Expect(c.Name()).To(Equal("Chain"))
		Expect(c.Len()).To(Equal(0))
		Expect(slices.Collect(c.All())).To(BeEmpty())
		Expect(c.String()).To(Equal("Head -> NULL"))
		Expect(c.Validate()).To(Succeed())
	})

	It("should keep appended values in order", func() {
		appendAll(1, 2, 3, 4, 5)

		Expect(c.Len()).To(Equal(5))
		Expect(slices.Collect(c.All())).To(Equal([]int{1, 2, 3, 4, 5}))
		Expect(heap.Live()).To(Equal(5))
		Expect(c.String()).To(Equal("Head -> 1 -> 2 -> 3 -> 4 -> 5 -> NULL"))
	})

	It("should restart traversal from the head", func() {
		appendAll(7, 8)

		Expect(slices.Collect(c.All())).To(Equal([]int{7, 8}))
		Expect(slices.Collect(c.All())).To(Equal([]int{7, 8}))
	})

	It("should stop traversal early", func() {
		appendAll(1, 2, 3)

		var seen []int
		for v := range c.All() {
			seen = append(seen, v)
			if v == 2 {
				break
			}
		}

		Expect(seen).To(Equal([]int{1, 2}))
	})

	Context("when inserting", func() {
		It("should insert at the head of an empty chain", func() {
			Expect(c.InsertAt(0, 9)).To(Succeed())

			Expect(slices.Collect(c.All())).To(Equal([]int{9}))
		})

		It("should insert at the head", func() {
			appendAll(1, 2)

			Expect(c.InsertAt(0, 0)).To(Succeed())

			Expect(slices.Collect(c.All())).To(Equal([]int{0, 1, 2}))
		})

		It("should insert in the middle", func() {
			appendAll(1, 2, 4)

			Expect(c.InsertAt(2, 3)).To(Succeed())

			Expect(slices.Collect(c.All())).To(Equal([]int{1, 2, 3, 4}))
			Expect(c.Validate()).To(Succeed())
		})

		It("should append when inserting at the length", func() {
			appendAll(1, 2)

			Expect(c.InsertAt(2, 3)).To(Succeed())

			Expect(slices.Collect(c.All())).To(Equal([]int{1, 2, 3}))
		})

		It("should reject an index beyond the length without leaking", func() {
			appendAll(1, 2)

			err := c.InsertAt(3, 3)

			Expect(errors.Is(err, mem.ErrIndexOutOfBounds)).To(BeTrue())
			Expect(slices.Collect(c.All())).To(Equal([]int{1, 2}))
			Expect(heap.Live()).To(Equal(2))
			Expect(heap.Stats().Frees).To(Equal(uint64(1)))
		})

		It("should reject index 1 on an empty chain without leaking", func() {
			err := c.InsertAt(1, 3)

			Expect(errors.Is(err, mem.ErrIndexOutOfBounds)).To(BeTrue())
			Expect(c.Len()).To(Equal(0))
			Expect(heap.Live()).To(Equal(0))
		})

		It("should reject a far index without leaking", func() {
			appendAll(1, 2)

			err := c.InsertAt(10, 3)

			Expect(errors.Is(err, mem.ErrIndexOutOfBounds)).To(BeTrue())
			Expect(heap.Live()).To(Equal(2))
		})

		It("should reject a negative index before allocating", func() {
			appendAll(1)

			err := c.InsertAt(-1, 3)

			var indexErr *mem.IndexError
			Expect(errors.As(err, &indexErr)).To(BeTrue())
			Expect(indexErr.Index).To(Equal(-1))
			Expect(heap.Stats().Allocs).To(Equal(uint64(1)))
			Expect(slices.Collect(c.All())).To(Equal([]int{1}))
		})
	})

	Context("when removing", func() {
		It("should return to empty after insert then remove", func() {
			Expect(c.InsertAt(0, 5)).To(Succeed())
			Expect(c.RemoveAt(0)).To(Succeed())

			Expect(c.Len()).To(Equal(0))
			Expect(slices.Collect(c.All())).To(BeEmpty())
			Expect(heap.Live()).To(Equal(0))
		})

		It("should remove the head", func() {
			appendAll(1, 2, 3)

			Expect(c.RemoveAt(0)).To(Succeed())

			Expect(slices.Collect(c.All())).To(Equal([]int{2, 3}))
		})

		It("should remove the middle node", func() {
			appendAll(1, 2, 3, 4, 5)

			Expect(c.RemoveAt(2)).To(Succeed())

			Expect(slices.Collect(c.All())).To(Equal([]int{1, 2, 4, 5}))
			Expect(heap.Live()).To(Equal(4))
		})

		It("should remove the last node", func() {
			appendAll(1, 2, 3)

			Expect(c.RemoveAt(2)).To(Succeed())

			Expect(slices.Collect(c.All())).To(Equal([]int{1, 2}))
			Expect(c.Append(4)).To(Succeed())
			Expect(slices.Collect(c.All())).To(Equal([]int{1, 2, 4}))
		})

		It("should reject removal from an empty chain", func() {
			Expect(errors.Is(c.RemoveAt(0), mem.ErrIndexOutOfBounds)).To(BeTrue())
		})

		It("should reject out of range indexes", func() {
			appendAll(1, 2, 3)

			for _, index := range []int{-1, 3, 4, 50} {
				err := c.RemoveAt(index)
				Expect(errors.Is(err, mem.ErrIndexOutOfBounds)).
					To(BeTrue(), "index %d", index)
			}

			Expect(slices.Collect(c.All())).To(Equal([]int{1, 2, 3}))
		})

		It("should shrink by one per removal in any order", func() {
			const n = 20
			values := make([]int, n)
			for i := range values {
				values[i] = i * 10
			}
			appendAll(values...)

			r := rand.New(rand.NewSource(1))
			for c.Len() > 0 {
				before := c.Len()
				index := r.Intn(before)
				expected := slices.Delete(slices.Clone(values), index, index+1)

				Expect(c.RemoveAt(index)).To(Succeed())

				values = expected
				Expect(c.Len()).To(Equal(before - 1))
				if len(values) == 0 {
					Expect(slices.Collect(c.All())).To(BeEmpty())
				} else {
					Expect(slices.Collect(c.All())).To(Equal(values))
				}
				Expect(c.Validate()).To(Succeed())
				Expect(heap.Live()).To(Equal(c.Len()))
			}
		})
	})

	Context("when released", func() {
		It("should free every node once", func() {
			appendAll(1, 2, 3)

			c.Release()
			c.Release()

			Expect(c.Released()).To(BeTrue())
			Expect(heap.Live()).To(Equal(0))
			Expect(heap.Stats().Frees).To(Equal(uint64(3)))
		})

		It("should refuse further changes", func() {
			c.Release()

			Expect(c.Append(1)).To(MatchError(mem.ErrReleased))
			Expect(c.InsertAt(0, 1)).To(MatchError(mem.ErrReleased))
			Expect(c.RemoveAt(0)).To(MatchError(mem.ErrReleased))
			Expect(slices.Collect(c.All())).To(BeEmpty())
		})
	})
})

var _ = Describe("With", func() {
	It("should release the chain on every exit path", func() {
		var kept *singly.Chain
		errStop := errors.New("stop")

		err := singly.With(func(c *singly.Chain) error {
			kept = c
			Expect(c.Append(1)).To(Succeed())
			return errStop
		})

		Expect(err).To(MatchError(errStop))
		Expect(kept.Released()).To(BeTrue())

		Expect(func() {
			_ = singly.With(func(c *singly.Chain) error {
				kept = c
				panic("boom")
			})
		}).To(Panic())
		Expect(kept.Released()).To(BeTrue())
	})
})
