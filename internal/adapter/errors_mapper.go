package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// authErrorBody covers both error shapes the auth backend has used.
type authErrorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error_code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (b authErrorBody) text() string {
	for _, s := range []string{b.Msg, b.Message, b.ErrorDescription, b.Error, b.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return ""
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	var parsed authErrorBody
	if err := json.Unmarshal(resp.Body(), &parsed); err == nil && parsed.text() != "" {
		body = parsed.text()
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrUnprocessable, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrTooManyRequests, body)
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %s", ErrBadGateway, body)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, body)
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}

// isSessionGone reports whether err means the backend no longer knows the
// session, so dropping it locally is the correct outcome.
func isSessionGone(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound)
}

// isRefreshRejected reports whether a refresh failure is final (a 4xx) as
// opposed to a transient transport or server error.
func isRefreshRejected(err error) bool {
	return isSessionGone(err) || errors.Is(err, ErrBadRequest) || errors.Is(err, ErrUnprocessable)
}
