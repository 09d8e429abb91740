package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sangkips/records-service/internal/apperrors"
)

// StatusFor maps an application error to the status of the re-rendered page.
func StatusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindReference:
		return http.StatusUnprocessableEntity
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// CategoryFor picks the flash category for a failed mutation.
func CategoryFor(err error) string {
	if apperrors.Is(err, apperrors.KindConflict) {
		return FlashWarning
	}
	return FlashDanger
}

// IDParam reads a positive integer route parameter.
func IDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
