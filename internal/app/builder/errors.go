package builder

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/spotlist/internal/domain/selection"
)

// Error classes returned by Build. Use errors.Is to classify a returned error.
var (
	// ErrValidation reports bad input detected before any network call.
	ErrValidation = errors.New("validation error")
	// ErrAuth reports that the music service has no valid session.
	// Other identity lookup failures are ErrService.
	ErrAuth = errors.New("authentication error")
	// ErrService reports a failed remote call. The remote message is kept in the error text.
	ErrService = errors.New("service error")
)

func validationError(msg string) error {
	return errors.Mark(errors.New(msg), ErrValidation)
}

func invalidSelectionError(err error, pos int, req selection.ArtistRequest) error {
	return errors.Mark(errors.Wrapf(err, "selection %d (%s)", pos, req), ErrValidation)
}

func authError(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrAuth)
}

func serviceError(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrService)
}
