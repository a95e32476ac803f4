package dummy

import (
	"context"
	"os"
	"strings"
	"sync"

	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
	"github.com/veedubyou/stem-remix/src/shared/remix/mix"
)

var _ mix.Mixer = &Mixer{}

type MixCall struct {
	Inputs []string
	Output string
}

// Mixer writes the list of its inputs into the output file
type Mixer struct {
	Fail       bool
	Diagnostic string

	mutex sync.Mutex
	calls []MixCall
}

func NewMixer() *Mixer {
	return &Mixer{}
}

func (m *Mixer) Combine(ctx context.Context, inputPaths []string, outputPath string) error {
	m.mutex.Lock()
	m.calls = append(m.calls, MixCall{
		Inputs: append([]string{}, inputPaths...),
		Output: outputPath,
	})
	m.mutex.Unlock()

	if m.Fail {
		return &remixerrors.MixFailedError{Diagnostic: m.Diagnostic}
	}

	return os.WriteFile(outputPath, []byte(strings.Join(inputPaths, "\n")), 0o644)
}

func (m *Mixer) Calls() []MixCall {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return append([]MixCall{}, m.calls...)
}
