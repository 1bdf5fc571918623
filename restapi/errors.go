package restapi

import (
	"fmt"
	"strings"

	"github.com/levigross/grequests"
	"github.com/pkg/errors"
)

// StatusError is returned by the client when the server answered with an
// unexpected status code.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s returned unexpected status code %d", e.Method, e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// wrapResp wraps a transport error in a user friendly message.
func wrapResp(method, url string, r *grequests.Response, err error) (*grequests.Response, error) {
	if err != nil {
		return nil, errors.Wrapf(err, "failed to %s %s", method, url)
	}
	return r, nil
}

// errUnexpStatus closes r and returns a StatusError holding its body.
func errUnexpStatus(method, url string, r *grequests.Response) error {
	defer r.Close() // nolint: errcheck
	return &StatusError{
		Method:     method,
		URL:        url,
		StatusCode: r.StatusCode,
		Body:       strings.TrimSpace(r.String()),
	}
}
