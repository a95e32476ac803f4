package separation

import (
	"context"

	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Engine splits one audio file into the stems of the preset it was built for.
// It writes outputRoot/<input base name>/<stem>.wav. Missing output is not its
// concern; the cache manager checks for it.
//
//counterfeiter:generate . Engine
type Engine interface {
	Separate(ctx context.Context, inputPath string, outputRoot string) error
}

// EngineFactory builds the engine for a preset. Building is expensive
// (model loading) so the Registry only does it once per preset.
type EngineFactory func(ctx context.Context, preset stem.Preset) (Engine, error)
