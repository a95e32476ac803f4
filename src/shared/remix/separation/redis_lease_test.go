package separation_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"github.com/veedubyou/stem-remix/src/shared/remix/separation"
)

var _ = Describe("RedisLease", func() {
	const (
		key      = "4stems/song"
		leaseKey = "stem-lease:4stems/song"
		ttl      = time.Minute
	)

	var (
		server *miniredis.Miniredis
		lease  separation.RedisLease
	)

	BeforeEach(func() {
		var err error
		server, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(server.Close)

		client := redis.NewClient(&redis.Options{Addr: server.Addr()})
		DeferCleanup(client.Close)

		lease = separation.NewRedisLease(client, ttl, 10*time.Millisecond)
	})

	lockInBackground := func(ctx context.Context) (chan func(), chan error) {
		acquired := make(chan func(), 1)
		failed := make(chan error, 1)

		go func() {
			unlock, err := lease.Lock(ctx, key)
			if err != nil {
				failed <- err
				return
			}
			acquired <- unlock
		}()

		return acquired, failed
	}

	It("holds the key with an expiry", func() {
		unlock, err := lease.Lock(context.Background(), key)
		Expect(err).NotTo(HaveOccurred())

		Expect(server.Exists(leaseKey)).To(BeTrue())
		Expect(server.TTL(leaseKey)).To(Equal(ttl))

		unlock()
		Expect(server.Exists(leaseKey)).To(BeFalse())
	})

	It("makes a second holder wait until the first releases", func() {
		unlock, err := lease.Lock(context.Background(), key)
		Expect(err).NotTo(HaveOccurred())

		acquired, failed := lockInBackground(context.Background())
		Consistently(acquired, 100*time.Millisecond).ShouldNot(Receive())

		unlock()

		var secondUnlock func()
		Eventually(acquired).Should(Receive(&secondUnlock))
		Expect(failed).NotTo(Receive())
		secondUnlock()
	})

	It("doesn't wait on other keys", func() {
		unlock, err := lease.Lock(context.Background(), key)
		Expect(err).NotTo(HaveOccurred())
		defer unlock()

		otherUnlock, err := lease.Lock(context.Background(), "4stems/other song")
		Expect(err).NotTo(HaveOccurred())
		otherUnlock()
	})

	It("leaves a lease alone once someone else holds it", func() {
		unlock, err := lease.Lock(context.Background(), key)
		Expect(err).NotTo(HaveOccurred())

		// the first lease expired and another process took the key
		Expect(server.Set(leaseKey, "another holder")).To(Succeed())

		unlock()

		value, err := server.Get(leaseKey)
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal("another holder"))
	})

	It("lets a waiter in once the holder's lease expires", func() {
		_, err := lease.Lock(context.Background(), key)
		Expect(err).NotTo(HaveOccurred())

		acquired, _ := lockInBackground(context.Background())
		Consistently(acquired, 50*time.Millisecond).ShouldNot(Receive())

		server.FastForward(ttl)

		Eventually(acquired).Should(Receive())
	})

	It("gives up when the waiter's context ends", func() {
		unlock, err := lease.Lock(context.Background(), key)
		Expect(err).NotTo(HaveOccurred())
		defer unlock()

		ctx, cancel := context.WithCancel(context.Background())
		acquired, failed := lockInBackground(ctx)
		Consistently(acquired, 50*time.Millisecond).ShouldNot(Receive())

		cancel()

		var waitErr error
		Eventually(failed).Should(Receive(&waitErr))
		Expect(errors.Is(waitErr, context.Canceled)).To(BeTrue())
		Expect(acquired).NotTo(Receive())
	})
})
