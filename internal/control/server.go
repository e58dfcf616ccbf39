// internal/control/server.go
package control

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/logging"
	"github.com/tamzrod/trdp-sim/internal/payload"
	"github.com/tamzrod/trdp-sim/internal/simulator"
	"github.com/tamzrod/trdp-sim/internal/store"
)

// maxConfigBytes limits uploaded configuration documents.
const maxConfigBytes = 512 << 10

// Server exposes a Manager and a config store over HTTP.
type Server struct {
	m     *Manager
	store *store.Store
	log   *slog.Logger
}

func NewServer(m *Manager, st *store.Store, log *slog.Logger) *Server {
	return &Server{m: m, store: st, log: logging.OrDiscard(log)}
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/status", s.status).Methods(http.MethodGet)
	r.HandleFunc("/api/metrics", s.metrics).Methods(http.MethodGet)
	r.HandleFunc("/api/start", s.start).Methods(http.MethodPost)
	r.HandleFunc("/api/stop", s.stop).Methods(http.MethodPost)

	r.HandleFunc("/api/payloads", s.payloads).Methods(http.MethodGet)
	r.HandleFunc("/api/payloads/{kind:pd|md}/{name}", s.setPayload).Methods(http.MethodPut)

	r.HandleFunc("/api/configs", s.listConfigs).Methods(http.MethodGet)
	r.HandleFunc("/api/configs/{name}", s.getConfig).Methods(http.MethodGet)
	r.HandleFunc("/api/configs/{name}", s.putConfig).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

// Serve runs the HTTP server on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ---- lifecycle ----

type statusRsp struct {
	Running   bool          `json:"running"`
	Config    string        `json:"config,omitempty"`
	LastError string        `json:"lastError,omitempty"`
	Process   *ProcessStats `json:"process,omitempty"`
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	rsp := statusRsp{
		Running: s.m.Running(),
		Config:  s.m.ConfigRef(),
	}
	if err := s.m.LastError(); err != nil {
		rsp.LastError = err.Error()
	}
	if ps, err := processStats(); err == nil {
		rsp.Process = &ps
	} else {
		s.log.Debug("process stats unavailable", "err", err)
	}
	writeJSON(w, http.StatusOK, rsp)
}

func (s *Server) metrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.m.Snapshot())
}

func (s *Server) start(w http.ResponseWriter, r *http.Request) {
	ref := r.FormValue("config")
	if ref == "" {
		writeError(w, http.StatusBadRequest, ErrMissingConfig.Error())
		return
	}

	if err := s.m.Start(ref); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Simulator started"})
}

func (s *Server) stop(w http.ResponseWriter, _ *http.Request) {
	if err := s.m.Stop(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Simulator stopped"})
}

// ---- payloads ----

type payloadsRsp struct {
	Pd map[string]config.PayloadConfig `json:"pd"`
	Md map[string]config.PayloadConfig `json:"md"`
}

func (s *Server) payloads(w http.ResponseWriter, _ *http.Request) {
	pd, md, err := s.m.Payloads()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, payloadsRsp{Pd: pd, Md: md})
}

func (s *Server) setPayload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var p config.PayloadConfig
	if err := json.NewDecoder(io.LimitReader(r.Body, maxConfigBytes)).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload body: "+err.Error())
		return
	}

	var err error
	if vars["kind"] == "pd" {
		err = s.m.SetPdPayload(vars["name"], p)
	} else {
		err = s.m.SetMdPayload(vars["name"], p)
	}

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, p)
	case errors.Is(err, ErrNotRunning):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, simulator.ErrWorkerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, payload.ErrResolution):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// ---- config library ----

func (s *Server) listConfigs(w http.ResponseWriter, _ *http.Request) {
	names, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Unable to list configuration directory: "+err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"configs": names})
}

type configRsp struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Contents string `json:"contents"`
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	data, err := s.store.Load(name)
	switch {
	case errors.Is(err, store.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "Configuration name is not allowed")
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Configuration file not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, configRsp{Name: name, Path: s.store.PathFor(name), Contents: string(data)})
}

func (s *Server) putConfig(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !store.ValidName(name) {
		writeError(w, http.StatusBadRequest, "Configuration name is not allowed")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxConfigBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(data) > maxConfigBytes {
		writeError(w, http.StatusBadRequest, "Configuration exceeds size limit (512 KB)")
		return
	}
	if _, err := config.Parse(data, config.FormatYAML); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.Save(name, data); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("configuration saved", "name", name)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Saved configuration"})
}

// ---- helpers ----

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
