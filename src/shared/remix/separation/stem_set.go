package separation

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/veedubyou/stem-remix/src/shared/remix/stem"
)

// Asset is an uploaded source file. BaseName is the file name without extension,
// which is also the directory name the engine writes stems into.
type Asset struct {
	Path     string
	BaseName string
}

func NewAsset(path string) Asset {
	fileName := filepath.Base(path)
	return Asset{
		Path:     path,
		BaseName: fileName[:len(fileName)-len(filepath.Ext(fileName))],
	}
}

type StemFile struct {
	Instrument stem.Instrument
	Path       string
}

// StemSet is every stem file of one preset for one asset, in catalog order
type StemSet struct {
	Preset stem.Preset
	Dir    string
	Files  []StemFile
}

func expectedStemSet(outputRoot string, asset Asset, preset stem.Preset, stems stem.Stems) StemSet {
	dir := filepath.Join(outputRoot, asset.BaseName)

	files := make([]StemFile, 0, len(stems))
	for _, s := range stems {
		files = append(files, StemFile{
			Instrument: s.Instrument,
			Path:       filepath.Join(dir, s.FileName),
		})
	}

	return StemSet{
		Preset: preset,
		Dir:    dir,
		Files:  files,
	}
}

func (s StemSet) Path(instrument stem.Instrument) (string, bool) {
	for _, file := range s.Files {
		if file.Instrument == instrument {
			return file.Path, true
		}
	}

	return "", false
}

func (s StemSet) Has(instrument stem.Instrument) bool {
	_, ok := s.Path(instrument)
	return ok
}

func (s StemSet) Instruments() []stem.Instrument {
	instruments := make([]stem.Instrument, 0, len(s.Files))
	for _, file := range s.Files {
		instruments = append(instruments, file.Instrument)
	}

	return instruments
}

// missing lists the stems whose file doesn't exist or is empty
func (s StemSet) missing() []string {
	missing := []string{}
	for _, file := range s.Files {
		info, err := os.Stat(file.Path)
		if err != nil || info.IsDir() || info.Size() == 0 {
			missing = append(missing, string(file.Instrument))
		}
	}

	return missing
}

// present lists the wav files that are actually in the stem directory
func (s StemSet) present() []string {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*.wav"))
	if err != nil {
		return nil
	}

	present := make([]string, 0, len(matches))
	for _, match := range matches {
		present = append(present, filepath.Base(match))
	}

	sort.Strings(present)
	return present
}
