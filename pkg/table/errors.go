package table

import (
	"errors"
	"fmt"

	"github.com/rancher/apiserver/pkg/apierror"
	"github.com/rancher/wrangler/v3/pkg/schemas/validation"
)

// ErrInvalidConfig is wrapped by every error caused by a table type declaring something impossible:
// a missing data entity, duplicate or unknown columns, sorting without a sortable column.
// These are programming errors and are raised before the data source is queried.
var ErrInvalidConfig = errors.New("invalid table configuration")

// NotFound returns a request-dependent not-found condition, such as a page past the last one.
func NotFound(format string, args ...any) error {
	return apierror.NewAPIError(validation.NotFound, fmt.Sprintf(format, args...))
}

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code.Code == validation.NotFound.Code
}

// IsInvalidConfig reports whether err was caused by an invalid table configuration.
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}
