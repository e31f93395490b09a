package comments

import "github.com/cockroachdb/errors"

// ErrConfiguration is the only error kind raised by the extension. Every
// validation failure is marked with it; check with errors.Is from
// github.com/cockroachdb/errors.
var ErrConfiguration = errors.New("invalid comments configuration")

func configError(hint, format string, args ...interface{}) error {
	err := errors.Mark(errors.Newf(format, args...), ErrConfiguration)
	if hint != "" {
		err = errors.WithHint(err, hint)
	}
	return err
}
