package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stavnycha/whereami/internal/logger"
	"github.com/stavnycha/whereami/internal/service"
)

// WhereAmIHandler handles HTTP requests for the caller's own location
// This is the handler layer - it deals with HTTP concerns only
//
// Responsibilities:
//   - Extract the remote address and Accept-Language from the request
//   - Call the service
//   - Write the JSON response
type WhereAmIHandler struct {
	service *service.WhereAmIService
	logger  *logger.Logger
}

// NewWhereAmIHandler creates a new handler with the given service
// log is optional, a default logger is used when nil
func NewWhereAmIHandler(service *service.WhereAmIService, log *logger.Logger) *WhereAmIHandler {
	if log == nil {
		log = logger.NewDefault()
	}
	return &WhereAmIHandler{
		service: service,
		logger:  log.WithComponent("WhereAmIHandler"),
	}
}

// WhereAmI handles GET /whereami
// @Summary      Locate the caller
// @Description  Returns the caller's address as seen by the server, the country it geolocates to and the preferred Accept-Language tag. Unknown values are null.
// @Tags         WhereAmI
// @Produce      json
// @Param        Accept-Language  header  string  false  "Language preferences"  example(en-AU,en-US;q=0.7,en;q=0.3)
// @Success      200  {object}  models.WhereAmIResult
// @Router       /whereami [get]
func (h *WhereAmIHandler) WhereAmI(w http.ResponseWriter, r *http.Request) {
	info := service.RequestInfo{
		RemoteAddr:     r.RemoteAddr,
		AcceptLanguage: r.Header.Get("Accept-Language"),
	}

	result := h.service.WhereAmI(r.Context(), info)

	// Missing pieces are nulls in the body, never an error status
	h.respondJSON(w, r, http.StatusOK, result)
}

// Health handles GET /health
// @Summary      Health check
// @Tags         Health
// @Produce      plain
// @Success      200  {string}  string  "OK"
// @Router       /health [get]
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// respondJSON writes a JSON response with the given status code
func (h *WhereAmIHandler) respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent, the client only gets a truncated body
		h.logger.WithRequestID(middleware.GetReqID(r.Context())).
			Warn().
			Err(err).
			Msg("Failed to encode response")
	}
}
