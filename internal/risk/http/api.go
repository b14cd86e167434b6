package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/pkg/risksdk"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// decodeJSONBody decodes exactly one JSON object into dst. It writes the
// error response itself and reports whether decoding succeeded.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			risksdk.ErrInvalidContentType.WriteError(w)
			return false
		}
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		risksdk.ErrInvalidBody.WriteError(w)
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		risksdk.ErrInvalidBody.WriteError(w)
		return false
	}
	return true
}

// apiError maps a prediction failure onto its JSON error.
func apiError(err error) *risksdk.APIError {
	var (
		verr *domain.ValidationError
		eerr *domain.EncodingError
		ierr *domain.InferenceError
	)
	switch {
	case errors.As(err, &verr):
		return risksdk.NewAPIError(http.StatusUnprocessableEntity, risksdk.ErrorCodeValidation, err.Error())
	case errors.As(err, &eerr):
		return risksdk.NewAPIError(http.StatusUnprocessableEntity, risksdk.ErrorCodeEncoding, err.Error())
	case errors.As(err, &ierr):
		return risksdk.ErrPredictionFailed
	default:
		return risksdk.ErrServer
	}
}
