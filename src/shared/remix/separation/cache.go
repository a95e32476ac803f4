package separation

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
)

// CacheManager is the only writer of stem files. Stems already on disk for
// an (asset, preset) pair are reused instead of separating again.
type CacheManager struct {
	outputRoot string
	registry   *Registry
	locker     Locker
}

func NewCacheManager(outputRoot string, registry *Registry, locker Locker) CacheManager {
	return CacheManager{
		outputRoot: outputRoot,
		registry:   registry,
		locker:     locker,
	}
}

func (c CacheManager) OutputRoot() string {
	return c.outputRoot
}

func (c CacheManager) EnsureStems(ctx context.Context, asset Asset, preset stem.Preset) (StemSet, error) {
	stems, err := stem.StemsFor(preset)
	if err != nil {
		return StemSet{}, err
	}

	errctx := cerr.Field("asset", asset.Path).Field("preset", preset)
	logger := log.WithFields(log.Fields{
		"asset":  asset.BaseName,
		"preset": preset,
	})

	expected := expectedStemSet(c.outputRoot, asset, preset, stems)

	unlock, err := c.locker.Lock(ctx, string(preset)+"/"+asset.BaseName)
	if err != nil {
		return StemSet{}, errctx.Wrap(err).Error("Failed to lock the stem directory")
	}
	defer unlock()

	if len(expected.missing()) == 0 {
		logger.Info("Stems already exist, skipping separation")
		c.removeSource(asset)
		return expected, nil
	}

	if err := os.MkdirAll(expected.Dir, os.ModePerm); err != nil {
		return StemSet{}, errctx.Field("stem_dir", expected.Dir).
			Wrap(err).Error("Failed to create the stem directory")
	}

	engine, err := c.registry.Get(ctx, preset)
	if err != nil {
		return StemSet{}, &remixerrors.SeparationFailedError{Preset: string(preset), Cause: err}
	}

	logger.Info("Separating stems")
	if err := engine.Separate(ctx, asset.Path, c.outputRoot); err != nil {
		return StemSet{}, &remixerrors.SeparationFailedError{Preset: string(preset), Cause: err}
	}

	c.removeSource(asset)

	if missing := expected.missing(); len(missing) > 0 {
		return StemSet{}, &remixerrors.IncompleteSeparationOutputError{
			Preset:  string(preset),
			Missing: missing,
			Present: expected.present(),
		}
	}

	logger.Info("Stems are ready")
	return expected, nil
}

// removeSource deletes the upload once separation no longer needs it.
// Failure leaves the file on disk and is only logged.
func (c CacheManager) removeSource(asset Asset) {
	err := os.Remove(asset.Path)
	if err != nil && !os.IsNotExist(err) {
		log.WithField("asset", asset.Path).
			WithError(err).
			Warn("Failed to remove uploaded source, leaving it on disk")
	}
}
