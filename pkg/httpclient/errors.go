package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/foodfleet/api/pkg/errors"
)

// DownstreamErrorResponse mirrors the httputil.ErrorResponse structure used by
// FoodFleet services and the payment gateway. It is used to parse structured
// error bodies from downstream HTTP calls.
type DownstreamErrorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError turns a non-2xx response into an AppError, keeping the
// downstream code and message when the body follows the shared ErrorResponse
// shape. The body is consumed and closed either way.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	// 1 MB cap on error bodies.
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	var downstream DownstreamErrorResponse
	if json.Unmarshal(bodyBytes, &downstream) == nil && downstream.Error != nil {
		return mapDownstreamError(resp.StatusCode, downstream.Error.Code, downstream.Error.Message, serviceName)
	}

	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(bodyBytes))
}

// mapDownstreamError projects a downstream status and error code onto the
// local error taxonomy so callers can branch with errors.Is.
func mapDownstreamError(status int, code, message, serviceName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", serviceName, message)

	switch status {
	case http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case http.StatusUnprocessableEntity:
		// The payment gateway declines authorizations with 422.
		return apperrors.SubmissionFailed(qualifiedMsg)
	case http.StatusServiceUnavailable:
		return &apperrors.AppError{
			Code:    code,
			Message: qualifiedMsg,
			Status:  http.StatusServiceUnavailable,
			Err:     apperrors.ErrServiceUnavail,
		}
	}

	if status >= 500 {
		return fmt.Errorf("%s server error (%d/%s): %s", serviceName, status, code, message)
	}
	return &apperrors.AppError{
		Code:    code,
		Message: qualifiedMsg,
		Status:  status,
	}
}

// IsClientError reports whether status is a 4xx. Client errors are never
// retried and do not count against the circuit breaker.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
