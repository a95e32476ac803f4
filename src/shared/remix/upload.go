package remix

import (
	"io"
	"path/filepath"
	"strings"
	"unicode"

	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
	"github.com/veedubyou/stem-remix/src/shared/remix/request"
)

var allowedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
}

// Upload is one remix request as handed over by a caller: the audio file
// and the raw selection fields that came with it
type Upload struct {
	FileName string
	Content  io.Reader
	Fields   request.Raw
}

// Validate checks the upload the way Process does before any work starts,
// returning the sanitised file name and the request built from the fields
func (u Upload) Validate() (string, request.Request, error) {
	fileName, err := u.validatedFileName()
	if err != nil {
		return "", nil, err
	}

	req, err := request.New(u.Fields)
	if err != nil {
		return "", nil, err
	}

	return fileName, req, nil
}

// validatedFileName returns the sanitised file name, or a validation error
// if there is no file or its type isn't supported
func (u Upload) validatedFileName() (string, error) {
	if u.Content == nil || strings.TrimSpace(u.FileName) == "" {
		return "", remixerrors.NewValidationError(remixerrors.MissingFile, "No file uploaded")
	}

	fileName := SanitizeFileName(u.FileName)
	if fileName == "" {
		return "", remixerrors.NewValidationError(remixerrors.MissingFile, "No file uploaded")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		return "", remixerrors.NewValidationError(remixerrors.UnsupportedFile, "Unsupported file type: %s", ext)
	}

	return fileName, nil
}

// SanitizeFileName reduces a client supplied name to something safe to use
// as a single path component: directories are dropped, whitespace becomes
// underscores and anything outside [A-Za-z0-9._-] is removed.
// Leading and trailing dots and underscores are trimmed.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	name = strings.Join(strings.Fields(name), "_")

	builder := strings.Builder{}
	for _, r := range name {
		if r > unicode.MaxASCII {
			continue
		}

		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			builder.WriteRune(r)
		}
	}

	return strings.Trim(builder.String(), "._")
}
