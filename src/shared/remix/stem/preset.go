package stem

import (
	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
)

type Preset string

const (
	InvalidPreset Preset = ""
	TwoStems      Preset = "2stems"
	FourStems     Preset = "4stems"
	FiveStems     Preset = "5stems"
)

type Stem struct {
	Instrument Instrument
	FileName   string
}

// Stems is ordered the way the engine lists its outputs
type Stems []Stem

var catalog = map[Preset]Stems{
	TwoStems: {
		{Instrument: Vocals, FileName: "vocals.wav"},
		{Instrument: Accompaniment, FileName: "accompaniment.wav"},
	},
	FourStems: {
		{Instrument: Vocals, FileName: "vocals.wav"},
		{Instrument: Drums, FileName: "drums.wav"},
		{Instrument: Bass, FileName: "bass.wav"},
		{Instrument: Other, FileName: "other.wav"},
	},
	FiveStems: {
		{Instrument: Vocals, FileName: "vocals.wav"},
		{Instrument: Drums, FileName: "drums.wav"},
		{Instrument: Bass, FileName: "bass.wav"},
		{Instrument: Piano, FileName: "piano.wav"},
		{Instrument: Other, FileName: "other.wav"},
	},
}

var prettyNames = map[Preset]string{
	TwoStems:  "2",
	FourStems: "4",
	FiveStems: "5",
}

func StemsFor(preset Preset) (Stems, error) {
	stems, ok := catalog[preset]
	if !ok {
		return nil, &remixerrors.UnknownPresetError{Preset: string(preset)}
	}

	out := make(Stems, len(stems))
	copy(out, stems)
	return out, nil
}

func ParsePreset(value string) (Preset, error) {
	preset := Preset(value)
	if _, ok := catalog[preset]; !ok {
		return InvalidPreset, &remixerrors.UnknownPresetError{Preset: value}
	}

	return preset, nil
}

func (p Preset) String() string {
	return string(p)
}

// Pretty is the stem count shown to users
func (p Preset) Pretty() string {
	if pretty, ok := prettyNames[p]; ok {
		return pretty
	}

	return string(p)
}

func (s Stems) Has(instrument Instrument) bool {
	for _, stem := range s {
		if stem.Instrument == instrument {
			return true
		}
	}

	return false
}

func (s Stems) Instruments() []Instrument {
	instruments := make([]Instrument, 0, len(s))
	for _, stem := range s {
		instruments = append(instruments, stem.Instrument)
	}

	return instruments
}
