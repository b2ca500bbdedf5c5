package api

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/gravity/pkg/buildinfo"
	"github.com/matzehuels/gravity/pkg/cache"
	"github.com/matzehuels/gravity/pkg/config"
	"github.com/matzehuels/gravity/pkg/core/gravity"
	"github.com/matzehuels/gravity/pkg/errors"
	gio "github.com/matzehuels/gravity/pkg/io"
	"github.com/matzehuels/gravity/pkg/matrix"
	"github.com/matzehuels/gravity/pkg/pipeline"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// LayoutRequest is the body of POST /v1/layout. Config holds engine
// overrides applied on top of the server's base tuning; omitted fields keep
// their base values.
type LayoutRequest struct {
	Tasks    []gravity.Task  `json:"tasks"`
	Config   json.RawMessage `json:"config,omitempty"`
	Formats  []string        `json:"formats,omitempty"`
	Detailed bool            `json:"detailed,omitempty"`
	Guides   bool            `json:"guides,omitempty"`
	Scale    float64         `json:"scale,omitempty"`
	Refresh  bool            `json:"refresh,omitempty"`
}

// LayoutResponse is the body returned by POST /v1/layout. Artifacts are
// base64 encoded by encoding/json.
type LayoutResponse struct {
	RequestID string            `json:"request_id"`
	TasksHash string            `json:"tasks_hash,omitempty"`
	Layout    matrix.Layout     `json:"layout"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
	Cache     CacheStatus       `json:"cache"`
}

// CacheStatus reports which stages were served from the cache.
type CacheStatus struct {
	LayoutHit bool `json:"layout_hit"`
	RenderHit bool `json:"render_hit"`
}

// AngleTask is a task that already carries its weight.
type AngleTask struct {
	ID       string           `json:"id"`
	Weight   float64          `json:"weight"`
	Quadrant gravity.Quadrant `json:"quadrant"`
}

// AnglesRequest is the body of POST /v1/angles.
type AnglesRequest struct {
	Tasks  []AngleTask     `json:"tasks"`
	Config json.RawMessage `json:"config,omitempty"`
}

// AnglesResponse maps task ids to angles in degrees.
type AnglesResponse struct {
	RequestID string             `json:"request_id"`
	Angles    map[string]float64 `json:"angles"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Tasks) > MaxTasks {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "too many tasks: %d (max %d)", len(req.Tasks), MaxTasks))
		return
	}
	tasks, err := gio.NormalizeTasks(req.Tasks)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cfg, err := s.engineConfig(req.Config)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := pipeline.ValidateFormats(req.Formats); err != nil {
		writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Config:   cfg,
		Refresh:  req.Refresh,
		Formats:  req.Formats,
		Detailed: req.Detailed,
		Guides:   req.Guides,
		Scale:    req.Scale,
		Logger:   s.logger.With("request_id", RequestIDFrom(r.Context())),
	}

	resp := LayoutResponse{RequestID: RequestIDFrom(r.Context())}
	if data, err := matrix.MarshalTasks(tasks); err == nil {
		resp.TasksHash = cache.Hash(data)
	}

	layout, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), tasks, opts)
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "layout"))
		return
	}
	resp.Layout = layout
	resp.Cache.LayoutHit = hit

	if len(req.Formats) > 0 {
		artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), layout, opts)
		if err != nil {
			writeError(w, r, renderError(err))
			return
		}
		resp.Artifacts = artifacts
		resp.Cache.RenderHit = hit
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAngles(w http.ResponseWriter, r *http.Request) {
	var req AnglesRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Tasks) > MaxTasks {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "too many tasks: %d (max %d)", len(req.Tasks), MaxTasks))
		return
	}
	cfg, err := s.engineConfig(req.Config)
	if err != nil {
		writeError(w, r, err)
		return
	}

	weighted := make([]gravity.WeightedTask, len(req.Tasks))
	for i, t := range req.Tasks {
		if err := errors.ValidateTaskID(t.ID); err != nil {
			writeError(w, r, errors.New(errors.ErrCodeInvalidTask, "task %d: %s", i, errors.UserMessage(err)))
			return
		}
		weighted[i] = gravity.WeightedTask{ID: t.ID, Weight: t.Weight, Quadrant: t.Quadrant}
	}

	angles := gravity.AssignAnglesSorted(weighted, cfg.Sanitize())
	writeJSON(w, http.StatusOK, AnglesResponse{RequestID: RequestIDFrom(r.Context()), Angles: angles})
}

// =============================================================================
// Helpers
// =============================================================================

// engineConfig overlays request overrides onto the base tuning and
// validates the result.
func (s *Server) engineConfig(overrides json.RawMessage) (gravity.Config, error) {
	cfg := s.engine
	if len(bytes.TrimSpace(overrides)) > 0 && !bytes.Equal(bytes.TrimSpace(overrides), []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(overrides))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return gravity.Config{}, errors.New(errors.ErrCodeInvalidConfig, "decode config overrides: %v", err)
		}
	}
	if err := config.ValidateEngine(cfg); err != nil {
		return gravity.Config{}, err
	}
	return cfg, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", MaxBodyBytes)
		case stderrors.Is(err, io.EOF):
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return errors.New(errors.ErrCodeInvalidInput, "decode request body: %v", err)
	}
	return nil
}

// renderError keeps coded errors and classifies the rest as internal.
func renderError(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "render")
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	RequestID string      `json:"request_id,omitempty"`
	Error     errorDetail `json:"error"`
}

func errorBody(r *http.Request, code, msg string) errorResponse {
	return errorResponse{
		RequestID: RequestIDFrom(r.Context()),
		Error:     errorDetail{Code: code, Message: msg},
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeJSON(w, errors.HTTPStatus(err), errorBody(r, code, errors.UserMessage(err)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
