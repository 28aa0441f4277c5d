package twilio

import (
	"errors"
	"fmt"
	"net/http"

	sdkclient "github.com/twilio/twilio-go/client"
)

var (
	// ErrNotFound matches any APIError for a missing resource.
	ErrNotFound = errors.New("twilio: resource not found")

	// ErrForeignHost is returned when a request, typically a pagination
	// link, points outside the configured provider endpoints.
	ErrForeignHost = errors.New("twilio: refusing request to foreign host")
)

const codeNotFound = 20404

// APIError is the error body returned by the REST API on failed calls.
type APIError struct {
	Status   int
	Code     int
	Message  string
	MoreInfo string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("twilio: status=%d code=%d: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("twilio: status=%d: %s", e.Status, e.Message)
}

// Is reports whether target is ErrNotFound and the error is a 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && (e.Status == http.StatusNotFound || e.Code == codeNotFound)
}

// wrapError converts SDK REST errors into *APIError and annotates err with
// the operation. Transport and decoding errors are kept as they are.
func wrapError(op string, err error) error {
	var restErr *sdkclient.TwilioRestError
	if errors.As(err, &restErr) {
		err = &APIError{
			Status:   restErr.Status,
			Code:     restErr.Code,
			Message:  restErr.Message,
			MoreInfo: restErr.MoreInfo,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
