package service

import (
	"github.com/campushub/college-api/pkg/database"
	appErrors "github.com/campushub/college-api/pkg/errors"
)

// wrapStorage classifies a repository failure. Connection loss surfaces as
// UNAVAILABLE so callers can retry; everything else stays an opaque
// internal error.
func wrapStorage(err error, message string) error {
	kind := appErrors.ErrInternal
	if database.IsUnavailable(err) {
		kind = appErrors.ErrUnavailable
	}
	return appErrors.Wrap(err, kind.Code, kind.Status, message)
}
