package separation

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
)

// Locker serialises work on one key, so two identical requests don't both
// run the separation engine into the same output directory
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

var _ Locker = &KeyedMutex{}

// KeyedMutex locks keys within this process
type KeyedMutex struct {
	mutex sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	held    chan struct{}
	waiters int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: map[string]*keyLock{}}
}

func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mutex.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &keyLock{held: make(chan struct{}, 1)}
		k.locks[key] = lock
	}
	lock.waiters++
	k.mutex.Unlock()

	select {
	case lock.held <- struct{}{}:
		return func() { k.release(key, lock) }, nil

	case <-ctx.Done():
		k.forget(key, lock)
		return nil, cerr.Field("key", key).Wrap(ctx.Err()).Error("Gave up waiting for lock")
	}
}

func (k *KeyedMutex) release(key string, lock *keyLock) {
	<-lock.held
	k.forget(key, lock)
}

func (k *KeyedMutex) forget(key string, lock *keyLock) {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	lock.waiters--
	if lock.waiters == 0 {
		delete(k.locks, key)
	}
}

var _ Locker = RedisLease{}

const leaseKeyPrefix = "stem-lease:"

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLease locks keys across processes sharing one output root.
// The lease expires after TTL in case its holder dies mid-separation,
// so TTL must outlast the slowest separation.
type RedisLease struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
}

func NewRedisLease(client *redis.Client, ttl time.Duration, retryInterval time.Duration) RedisLease {
	return RedisLease{
		client:        client,
		ttl:           ttl,
		retryInterval: retryInterval,
	}
}

func (r RedisLease) Lock(ctx context.Context, key string) (func(), error) {
	leaseKey := leaseKeyPrefix + key
	token := uuid.New().String()
	errctx := cerr.Field("lease_key", leaseKey)

	for {
		acquired, err := r.client.SetNX(ctx, leaseKey, token, r.ttl).Result()
		if err != nil {
			return nil, errctx.Wrap(err).Error("Failed to acquire lease from redis")
		}

		if acquired {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errctx.Wrap(ctx.Err()).Error("Gave up waiting for lease")
		case <-time.After(r.retryInterval):
		}
	}

	unlock := func() {
		// the request context may already be done, releasing should still happen
		err := releaseScript.Run(context.Background(), r.client, []string{leaseKey}, token).Err()
		if err != nil {
			log.WithField("lease_key", leaseKey).
				WithError(err).
				Warn("Failed to release lease, it will expire on its own")
		}
	}

	return unlock, nil
}
