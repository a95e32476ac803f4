package separation_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-remix/src/shared/remix/separation"
)

var _ = Describe("KeyedMutex", func() {
	var locker *separation.KeyedMutex

	BeforeEach(func() {
		locker = separation.NewKeyedMutex()
	})

	It("lets one holder at a time in per key", func() {
		var (
			inside  atomic.Int32
			maxSeen atomic.Int32
			wg      sync.WaitGroup
		)

		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				unlock, err := locker.Lock(context.Background(), "4stems/song")
				Expect(err).NotTo(HaveOccurred())

				current := inside.Add(1)
				if current > maxSeen.Load() {
					maxSeen.Store(current)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)

				unlock()
			}()
		}
		wg.Wait()

		Expect(maxSeen.Load()).To(Equal(int32(1)))
	})

	It("doesn't block other keys", func() {
		unlock, err := locker.Lock(context.Background(), "4stems/song")
		Expect(err).NotTo(HaveOccurred())
		defer unlock()

		otherUnlock, err := locker.Lock(context.Background(), "5stems/song")
		Expect(err).NotTo(HaveOccurred())
		otherUnlock()
	})

	It("gives up when the context is done", func() {
		unlock, err := locker.Lock(context.Background(), "4stems/song")
		Expect(err).NotTo(HaveOccurred())
		defer unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err = locker.Lock(ctx, "4stems/song")
		Expect(err).To(MatchError(ContainSubstring("Gave up waiting for lock")))
	})

	It("can be taken again after release", func() {
		unlock, err := locker.Lock(context.Background(), "key")
		Expect(err).NotTo(HaveOccurred())
		unlock()

		unlock, err = locker.Lock(context.Background(), "key")
		Expect(err).NotTo(HaveOccurred())
		unlock()
	})
})
