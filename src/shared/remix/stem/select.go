package stem

// SelectionPolicy holds the knobs of preset selection that are a matter of taste
type SelectionPolicy struct {
	// MultiVocalsOnlyPreset is used in multi mode when vocals are the only removal.
	// 4stems keeps multi mode consistent, 2stems is faster.
	MultiVocalsOnlyPreset Preset
}

func DefaultSelectionPolicy() SelectionPolicy {
	return SelectionPolicy{
		MultiVocalsOnlyPreset: FourStems,
	}
}

func SelectSingle(instrument Instrument, karaokeFast bool) Preset {
	return DefaultSelectionPolicy().SelectSingle(instrument, karaokeFast)
}

func SelectMulti(removals []Instrument) Preset {
	return DefaultSelectionPolicy().SelectMulti(removals)
}

// SelectSingle picks the preset for one target. Piano is checked first:
// only 5stems has a piano stem, so it wins over the karaoke shortcut.
func (p SelectionPolicy) SelectSingle(instrument Instrument, karaokeFast bool) Preset {
	target := Normalize(string(instrument))

	if target == Piano {
		return FiveStems
	}

	if karaokeFast && target == Vocals {
		return TwoStems
	}

	return FourStems
}

func (p SelectionPolicy) SelectMulti(removals []Instrument) Preset {
	removalSet := map[Instrument]bool{}
	for _, removal := range removals {
		removalSet[Normalize(string(removal))] = true
	}

	if len(removalSet) == 1 && removalSet[Vocals] {
		return p.multiVocalsOnlyPreset()
	}

	if removalSet[Piano] {
		return FiveStems
	}

	return FourStems
}

func (p SelectionPolicy) multiVocalsOnlyPreset() Preset {
	if _, ok := catalog[p.MultiVocalsOnlyPreset]; !ok {
		return FourStems
	}

	return p.MultiVocalsOnlyPreset
}
