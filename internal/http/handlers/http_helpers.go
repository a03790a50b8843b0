package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rogerio-castellano/financial-planner-server/internal/cashflow"
	"github.com/rogerio-castellano/financial-planner-server/internal/log"
	"github.com/rogerio-castellano/financial-planner-server/internal/plaid"
	"github.com/rogerio-castellano/financial-planner-server/internal/service"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// errorStatus maps an error returned by the planner to a status code and a
// message safe to show the client.
func errorStatus(err error) (int, string) {
	var (
		dataErr *cashflow.DataIntegrityError
		apiErr  *plaid.Error
	)

	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrInvalidPublicToken):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "aggregator did not respond in time"
	case errors.As(err, &dataErr):
		return http.StatusBadGateway, dataErr.Error()
	case errors.Is(err, cashflow.ErrPaginationStalled):
		return http.StatusBadGateway, cashflow.ErrPaginationStalled.Error()
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return http.StatusTooManyRequests, "aggregator rate limit exceeded"
		}
		msg := "aggregator request failed"
		if apiErr.Code != "" {
			msg += ": " + apiErr.Code
		}
		return http.StatusBadGateway, msg
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := errorStatus(err)

	logger := log.FromContext(r.Context())
	fields := log.NewFields().WithOperation(op).WithError(err)
	fields[log.FieldStatusCode] = status
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", fields.ToSlice()...)
	} else {
		logger.WarnContext(r.Context(), "request rejected", fields.ToSlice()...)
	}

	_ = writeJSON(w, status, ErrorResponse{Error: msg})
}
