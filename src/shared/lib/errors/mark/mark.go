package mark

import "github.com/cockroachdb/errors"

// Wrap marks the handled error so callers can test it with markers.Is,
// then adds msg as context
func Wrap(handledErr error, newMarkingError error, msg string) error {
	newErr := errors.Mark(handledErr, newMarkingError)
	return errors.WrapWithDepth(1, newErr, msg)
}

func Message(newMarkingError error, msg string) error {
	err := errors.NewWithDepth(1, msg)
	return errors.Mark(err, newMarkingError)
}
