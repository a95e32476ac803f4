package compose

import (
	"sort"
	"strings"

	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
	"github.com/veedubyou/stem-remix/src/shared/remix/request"
	"github.com/veedubyou/stem-remix/src/shared/remix/separation"
	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
)

// Plan is what goes into the mix, in catalog order, plus the label naming the mix
type Plan struct {
	Keep  []separation.StemFile
	Label string
}

func (p Plan) Paths() []string {
	paths := make([]string, 0, len(p.Keep))
	for _, file := range p.Keep {
		paths = append(paths, file.Path)
	}

	return paths
}

func (p Plan) Instruments() []stem.Instrument {
	instruments := make([]stem.Instrument, 0, len(p.Keep))
	for _, file := range p.Keep {
		instruments = append(instruments, file.Instrument)
	}

	return instruments
}

func Compose(req request.Request, stemSet separation.StemSet) (Plan, error) {
	var plan Plan

	switch r := req.(type) {
	case request.SingleRemove:
		if err := ensureAvailable(r.Target, stemSet); err != nil {
			return Plan{}, err
		}

		plan = Plan{
			Keep:  without(stemSet, r.Target),
			Label: "no_" + string(r.Target),
		}

	case request.SingleSolo:
		if err := ensureAvailable(r.Target, stemSet); err != nil {
			return Plan{}, err
		}

		path, _ := stemSet.Path(r.Target)
		plan = Plan{
			Keep:  []separation.StemFile{{Instrument: r.Target, Path: path}},
			Label: "solo_" + string(r.Target),
		}

	case request.MultiRemove:
		// removals the preset doesn't have are ignored
		plan = Plan{
			Keep:  without(stemSet, r.Removals...),
			Label: "no_" + joinSorted(r.Removals),
		}

	default:
		panic("unhandled request type!")
	}

	if len(plan.Keep) == 0 {
		return Plan{}, remixerrors.NewValidationError(remixerrors.EmptySelection,
			"Nothing to mix. Try a different selection.")
	}

	return plan, nil
}

func ensureAvailable(target stem.Instrument, stemSet separation.StemSet) error {
	if !stemSet.Has(target) {
		return remixerrors.NewValidationError(remixerrors.StemUnavailable,
			"Target stem '%s' not present in %s.", target, stemSet.Preset)
	}

	return nil
}

func without(stemSet separation.StemSet, removals ...stem.Instrument) []separation.StemFile {
	removed := map[stem.Instrument]bool{}
	for _, removal := range removals {
		removed[removal] = true
	}

	keep := []separation.StemFile{}
	for _, file := range stemSet.Files {
		if !removed[file.Instrument] {
			keep = append(keep, file)
		}
	}

	return keep
}

func joinSorted(instruments []stem.Instrument) string {
	names := make([]string, 0, len(instruments))
	seen := map[stem.Instrument]bool{}
	for _, instrument := range instruments {
		if seen[instrument] {
			continue
		}
		seen[instrument] = true
		names = append(names, string(instrument))
	}

	sort.Strings(names)
	return strings.Join(names, "-")
}
