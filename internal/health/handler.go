package health

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sangkips/records-service/internal/handlers"
)

const (
	StatusOK   = "OK"
	StatusFail = "FAIL"
)

// DatabaseChecker runs a trivial query against the store.
type DatabaseChecker interface {
	Check(ctx context.Context) error
}

// LogChecker writes a probe line through the application logger.
type LogChecker interface {
	Check() error
}

type Handler struct {
	db     DatabaseChecker
	log    LogChecker
	logger zerolog.Logger
}

func NewHandler(db DatabaseChecker, log LogChecker, logger zerolog.Logger) *Handler {
	return &Handler{
		db:     db,
		log:    log,
		logger: logger,
	}
}

// Response is the health report. Details holds "OK" or the error text per component.
type Response struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := Response{Status: StatusOK, Details: make(map[string]string, 2)}

	response.Details["database"] = h.report("database", h.checkDatabase(ctx), &response)
	response.Details["logging"] = h.report("logging", h.checkLogging(), &response)

	statusCode := http.StatusOK
	if response.Status != StatusOK {
		statusCode = http.StatusInternalServerError
	}

	handlers.RespondWithJSON(w, statusCode, response)
}

func (h *Handler) report(component string, err error, response *Response) string {
	if err == nil {
		return StatusOK
	}
	h.logger.Error().Err(err).Str("component", component).Msg("health check failed")
	response.Status = StatusFail
	return err.Error()
}

func (h *Handler) checkDatabase(ctx context.Context) error {
	if h.db == nil {
		return errNotConfigured("database")
	}
	return h.db.Check(ctx)
}

func (h *Handler) checkLogging() error {
	if h.log == nil {
		return errNotConfigured("logging")
	}
	return h.log.Check()
}

type errNotConfigured string

func (e errNotConfigured) Error() string {
	return string(e) + " is not configured"
}
