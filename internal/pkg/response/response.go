package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/futig/interview-backend/internal/entity"
)

// JSON writes v as a JSON response
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent, nothing left to report
			return
		}
	}
}

// OK writes a successful envelope carrying data
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, entity.Envelope{
		Result: entity.EnvelopeResultOK,
		Data:   data,
	})
}

// Fail writes a failed envelope with the HTTP status echoed in code
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, entity.Envelope{
		Result:  entity.EnvelopeResultFail,
		Code:    strconv.Itoa(status),
		Message: message,
	})
}

// File writes a downloadable attachment
func File(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
