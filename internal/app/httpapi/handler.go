package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	app "github.com/neetprep/service_layer/internal/app"
	core "github.com/neetprep/service_layer/internal/app/core/service"
	"github.com/neetprep/service_layer/internal/app/domain/session"
	"github.com/neetprep/service_layer/internal/app/metrics"
	"github.com/neetprep/service_layer/internal/app/services/sessions"
	"github.com/neetprep/service_layer/pkg/logger"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
	log *logger.Logger
}

// NewHandler returns a router exposing the REST API. Middleware is applied by
// the caller, see NewRouter.
func NewHandler(application *app.Application, log *logger.Logger) *mux.Router {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{app: application, log: log}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session-questions/lookup", h.lookupSessionQuestion).Methods(http.MethodPost)
	api.HandleFunc("/session-questions", h.getSessionQuestion).Methods(http.MethodGet)
	api.HandleFunc("/sessions", h.startSession).Methods(http.MethodPost)
	api.HandleFunc("/questions/{id}", h.getQuestion).Methods(http.MethodGet)
	api.HandleFunc("/plans/{code}", h.getPlan).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/quota", h.getQuota).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("route not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})
	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) lookupSessionQuestion(w http.ResponseWriter, r *http.Request) {
	var params session.LookupParams
	if err := decodeJSON(r.Body, &params); err != nil {
		writeJSON(w, http.StatusBadRequest, &session.LookupError{
			Message: session.MsgInvalidRequest,
			Details: map[string][]string{"body": {err.Error()}},
		})
		return
	}
	h.lookup(w, r, params)
}

func (h *handler) getSessionQuestion(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	details := map[string][]string{}
	sessionID := queryInt(query.Get("session_id"), "session_id", details)
	questionID := queryInt(query.Get("question_id"), "question_id", details)
	if len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, &session.LookupError{Message: session.MsgInvalidRequest, Details: details})
		return
	}
	h.lookup(w, r, session.LookupParams{SessionID: sessionID, QuestionID: questionID})
}

func (h *handler) lookup(w http.ResponseWriter, r *http.Request, params session.LookupParams) {
	resp, err := h.app.Sessions.Lookup(r.Context(), params)
	if err != nil {
		if lerr, ok := session.AsLookupError(err); ok {
			status := http.StatusNotFound
			if len(lerr.Details) > 0 {
				status = http.StatusBadRequest
			}
			writeJSON(w, status, lerr)
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req sessions.StartRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Plan == "" {
		req.Plan = h.app.Plans.DefaultPlan()
	}
	started, err := h.app.Sessions.Start(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, started)
}

func (h *handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	q, err := h.app.Questions.Get(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *handler) getPlan(w http.ResponseWriter, r *http.Request) {
	limits, err := h.app.Plans.Limits(mux.Vars(r)["code"])
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, limits)
}

func (h *handler) getQuota(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	planCode := r.URL.Query().Get("plan")
	if planCode == "" {
		planCode = h.app.Plans.DefaultPlan()
	}
	quota, err := h.app.Plans.Quota(r.Context(), userID, planCode)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quota)
}

// serviceError maps service errors onto status codes.
func (h *handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidationError(err):
		writeError(w, http.StatusBadRequest, err)
	case core.IsNotFound(err):
		writeError(w, http.StatusNotFound, err)
	case core.IsConflict(err):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, core.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err)
	default:
		h.internalError(w, r, err)
	}
}

func (h *handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithError(err).
		WithField("method", r.Method).
		WithField("path", r.URL.Path).
		Error("request failed")
	writeError(w, http.StatusInternalServerError, core.ErrInternal)
}

func pathInt(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return id, nil
}

// queryInt parses a query value, recording a problem under field in details.
// Range checks are left to the service.
func queryInt(raw, field string, details map[string][]string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		details[field] = append(details[field], "is required")
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		details[field] = append(details[field], "must be a positive integer")
		return 0
	}
	return v
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
