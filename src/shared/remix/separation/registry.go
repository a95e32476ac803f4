package separation

import (
	"context"
	"sync"

	"github.com/apex/log"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
	"golang.org/x/sync/singleflight"
)

// Registry holds one engine per preset for the life of the process.
// Concurrent first use of a preset builds the engine once; everyone else
// waits for that build. A failed build is not remembered.
// Engines are shared by in-flight requests without further locking.
type Registry struct {
	factory EngineFactory
	group   singleflight.Group

	mutex   sync.RWMutex
	engines map[stem.Preset]Engine
}

func NewRegistry(factory EngineFactory) *Registry {
	return &Registry{
		factory: factory,
		engines: map[stem.Preset]Engine{},
	}
}

func (r *Registry) Get(ctx context.Context, preset stem.Preset) (Engine, error) {
	if engine, ok := r.lookup(preset); ok {
		return engine, nil
	}

	result, err, _ := r.group.Do(string(preset), func() (any, error) {
		if engine, ok := r.lookup(preset); ok {
			return engine, nil
		}

		log.WithField("preset", preset).Info("Building separation engine")
		// waiters share this build, so one caller giving up must not fail it for the rest
		engine, err := r.factory(context.WithoutCancel(ctx), preset)
		if err != nil {
			return nil, cerr.Field("preset", preset).
				Wrap(err).Error("Failed to build separation engine")
		}

		r.mutex.Lock()
		r.engines[preset] = engine
		r.mutex.Unlock()

		return engine, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(Engine), nil
}

func (r *Registry) lookup(preset stem.Preset) (Engine, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	engine, ok := r.engines[preset]
	return engine, ok
}
