package request

import (
	"sort"
	"strings"

	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
)

type Mode string

const (
	SingleMode Mode = "single"
	MultiMode  Mode = "multi"
)

type Action string

const (
	RemoveAction Action = "remove"
	SoloAction   Action = "solo"
)

// DefaultInstrument is what a request targets when it doesn't name an
// instrument at all. A named but empty instrument is kept as is.
const DefaultInstrument = stem.Drums

// Request is one of SingleRemove, SingleSolo or MultiRemove
type Request interface {
	Mode() Mode
	Action() Action
	// Targets are the instruments named by the user, sorted for multi mode
	Targets() []stem.Instrument
	Preset(policy stem.SelectionPolicy) stem.Preset
	isRequest()
}

var (
	_ Request = SingleRemove{}
	_ Request = SingleSolo{}
	_ Request = MultiRemove{}
)

type SingleRemove struct {
	Target      stem.Instrument
	KaraokeFast bool
}

func (SingleRemove) Mode() Mode     { return SingleMode }
func (SingleRemove) Action() Action { return RemoveAction }
func (SingleRemove) isRequest()     {}

func (s SingleRemove) Targets() []stem.Instrument {
	return []stem.Instrument{s.Target}
}

func (s SingleRemove) Preset(policy stem.SelectionPolicy) stem.Preset {
	return policy.SelectSingle(s.Target, s.KaraokeFast)
}

type SingleSolo struct {
	Target      stem.Instrument
	KaraokeFast bool
}

func (SingleSolo) Mode() Mode     { return SingleMode }
func (SingleSolo) Action() Action { return SoloAction }
func (SingleSolo) isRequest()     {}

func (s SingleSolo) Targets() []stem.Instrument {
	return []stem.Instrument{s.Target}
}

func (s SingleSolo) Preset(policy stem.SelectionPolicy) stem.Preset {
	return policy.SelectSingle(s.Target, s.KaraokeFast)
}

// MultiRemove always removes; karaoke does not apply
type MultiRemove struct {
	Removals []stem.Instrument
}

func (MultiRemove) Mode() Mode     { return MultiMode }
func (MultiRemove) Action() Action { return RemoveAction }
func (MultiRemove) isRequest()     {}

func (m MultiRemove) Targets() []stem.Instrument {
	return m.Removals
}

func (m MultiRemove) Preset(policy stem.SelectionPolicy) stem.Preset {
	return policy.SelectMulti(m.Removals)
}

// Raw is the request as it arrives from a form or the command line
type Raw struct {
	Multi      bool
	Removals   []string
	Instrument string
	Action     string
	Karaoke    bool
}

// New validates the raw fields and builds the matching request.
// Raw.Instrument is taken as given, callers fill in DefaultInstrument
// when their input has no instrument field.
func New(raw Raw) (Request, error) {
	action := Action(strings.ToLower(strings.TrimSpace(raw.Action)))
	if action == "" {
		action = RemoveAction
	}

	if action != RemoveAction && action != SoloAction {
		return nil, remixerrors.NewValidationError(remixerrors.InvalidAction, "Invalid action")
	}

	if raw.Multi {
		removals := uniqueSorted(stem.NormalizeAll(raw.Removals))
		if len(removals) == 0 {
			return nil, remixerrors.NewValidationError(remixerrors.EmptyRemovalSet,
				"Choose at least one instrument to remove in multi-removal mode.")
		}

		return MultiRemove{Removals: removals}, nil
	}

	instrument := stem.Normalize(raw.Instrument)

	if action == SoloAction {
		return SingleSolo{Target: instrument, KaraokeFast: raw.Karaoke}, nil
	}

	return SingleRemove{Target: instrument, KaraokeFast: raw.Karaoke}, nil
}

func uniqueSorted(instruments []stem.Instrument) []stem.Instrument {
	seen := map[stem.Instrument]bool{}
	unique := []stem.Instrument{}
	for _, instrument := range instruments {
		if instrument == "" || seen[instrument] {
			continue
		}

		seen[instrument] = true
		unique = append(unique, instrument)
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	return unique
}

// IsTruthy reads checkbox style form values
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on":
		return true
	default:
		return false
	}
}
