package stem

import "strings"

type Instrument string

const (
	Vocals        Instrument = "vocals"
	Drums         Instrument = "drums"
	Bass          Instrument = "bass"
	Piano         Instrument = "piano"
	Other         Instrument = "other"
	Accompaniment Instrument = "accompaniment"
)

var synonyms = map[string]Instrument{
	"voice": Vocals,
	"vocal": Vocals,
}

// Normalize never fails. Unknown names come back lower-cased and trimmed,
// it's up to the preset to decide whether they exist
func Normalize(raw string) Instrument {
	name := strings.ToLower(strings.TrimSpace(raw))
	if instrument, ok := synonyms[name]; ok {
		return instrument
	}

	return Instrument(name)
}

func NormalizeAll(raw []string) []Instrument {
	instruments := make([]Instrument, 0, len(raw))
	for _, name := range raw {
		instruments = append(instruments, Normalize(name))
	}

	return instruments
}
