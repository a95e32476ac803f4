package dummy

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-remix/src/shared/remix/separation"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
)

var _ separation.Engine = &Engine{}

// Engine writes a small wav file per stem of its preset instead of separating
type Engine struct {
	Preset stem.Preset
	// Fail makes Separate error out before writing anything
	Fail bool
	// SkipStems are not written, to simulate a model producing the wrong output
	SkipStems map[stem.Instrument]bool
	// BeforeSeparate runs before the input is read, tests use it to hold a separation open
	BeforeSeparate func(inputPath string)

	calls atomic.Int32
}

func NewEngine(preset stem.Preset) *Engine {
	return &Engine{
		Preset:    preset,
		SkipStems: map[stem.Instrument]bool{},
	}
}

func (e *Engine) Calls() int {
	return int(e.calls.Load())
}

func (e *Engine) Separate(ctx context.Context, inputPath string, outputRoot string) error {
	e.calls.Add(1)

	if e.BeforeSeparate != nil {
		e.BeforeSeparate(inputPath)
	}

	if e.Fail {
		return errors.New("model exploded")
	}

	if _, err := os.Stat(inputPath); err != nil {
		return errors.Wrap(err, "Input is not readable")
	}

	stems, err := stem.StemsFor(e.Preset)
	if err != nil {
		return err
	}

	fileName := filepath.Base(inputPath)
	dir := filepath.Join(outputRoot, fileName[:len(fileName)-len(filepath.Ext(fileName))])
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	for _, s := range stems {
		if e.SkipStems[s.Instrument] {
			continue
		}

		if err := os.WriteFile(filepath.Join(dir, s.FileName), []byte(s.Instrument), 0o644); err != nil {
			return err
		}
	}

	return nil
}

// EngineFactory hands out one dummy engine per preset and counts the builds
type EngineFactory struct {
	FailBuild bool

	mutex   sync.Mutex
	builds  int
	engines map[stem.Preset]*Engine
}

func NewEngineFactory() *EngineFactory {
	return &EngineFactory{engines: map[stem.Preset]*Engine{}}
}

func (f *EngineFactory) Build(ctx context.Context, preset stem.Preset) (separation.Engine, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.builds++
	if f.FailBuild {
		return nil, errors.New("model download failed")
	}

	return f.engineLocked(preset), nil
}

// Engine returns the engine a preset gets, creating it if needed so tests
// can configure it before the first build
func (f *EngineFactory) Engine(preset stem.Preset) *Engine {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.engineLocked(preset)
}

func (f *EngineFactory) engineLocked(preset stem.Preset) *Engine {
	engine, ok := f.engines[preset]
	if !ok {
		engine = NewEngine(preset)
		f.engines[preset] = engine
	}

	return engine
}

func (f *EngineFactory) Builds() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.builds
}

// TotalCalls is the number of separations across every preset
func (f *EngineFactory) TotalCalls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	total := 0
	for _, engine := range f.engines {
		total += engine.Calls()
	}

	return total
}
