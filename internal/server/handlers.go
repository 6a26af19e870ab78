package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"navigation-qr/internal/config"
	"navigation-qr/internal/eventBus"
	"navigation-qr/internal/generator"
	"navigation-qr/internal/graph"
	"navigation-qr/internal/payload"
)

const maxBody = 64 << 10

// FloorGenerator is implemented by *generator.Generator.
type FloorGenerator interface {
	GenerateFloor(ctx context.Context, graphPath, outDir string, floor int) (generator.FloorResult, error)
}

type Server struct {
	cfg *config.Config
	bus *eventBus.EventBus
	gen FloorGenerator
	log *zap.Logger

	// base is the lifetime of background generations
	base    context.Context
	mu      sync.Mutex
	running map[int]bool
	wg      sync.WaitGroup
}

func New(ctx context.Context, cfg *config.Config, bus *eventBus.EventBus, gen FloorGenerator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, bus: bus, gen: gen, log: log, base: ctx, running: make(map[int]bool)}
}

// ValidateResponse is returned by POST /validate.
type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

// ValidateHandler checks the scanned text posted as the request body.
func (s *Server) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := payload.Inspect(string(body))
	s.log.Debug("validated payload", zap.Bool("valid", res.Valid), zap.String("message", res.Message))
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: res.Valid, Kind: res.Kind.String(), Message: res.Message})
}

// floorParam reads the floor from the {piso} path variable or the piso query.
func floorParam(r *http.Request) (int, error) {
	raw, ok := mux.Vars(r)["piso"]
	if !ok {
		raw = r.URL.Query().Get("piso")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid piso %q", raw)
	}
	return n, nil
}

// PayloadHandler builds the QR payload of the node posted as JSON.
// piso is the floor used when the id carries none.
func (s *Server) PayloadHandler(w http.ResponseWriter, r *http.Request) {
	floor, err := floorParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var node graph.Node
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&node); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	io.WriteString(w, payload.Build(node, floor))
}

// GenerateHandler starts the regeneration of one floor in the background.
// Progress is streamed on /ws.
func (s *Server) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	n, err := floorParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	floor, ok := s.cfg.Floor(n)
	if !ok {
		http.Error(w, fmt.Sprintf("floor %d is not configured", n), http.StatusNotFound)
		return
	}

	s.mu.Lock()
	if s.running[n] {
		s.mu.Unlock()
		http.Error(w, fmt.Sprintf("floor %d is already being generated", n), http.StatusConflict)
		return
	}
	s.running[n] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.running, n)
			s.mu.Unlock()
		}()
		res, err := s.gen.GenerateFloor(s.base, s.cfg.Resolve(floor.Graph), s.cfg.Resolve(floor.Output), n)
		if err != nil {
			s.log.Error("floor generation failed", zap.Int("piso", n), zap.Error(err))
			return
		}
		s.log.Info("floor generation finished", zap.Int("piso", n), zap.Int("generated", res.Generated))
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{"piso": n, "status": "started"})
}

// FloorStatus is one entry of GET /floors.
type FloorStatus struct {
	Piso    int    `json:"piso"`
	Graph   string `json:"graph"`
	Output  string `json:"output"`
	Running bool   `json:"running"`
}

// FloorsHandler lists the configured floors.
func (s *Server) FloorsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FloorStatus, 0, len(s.cfg.Floors))
	for _, f := range s.cfg.Floors {
		out = append(out, FloorStatus{Piso: f.Number, Graph: f.Graph, Output: f.Output, Running: s.running[f.Number]})
	}
	writeJSON(w, http.StatusOK, out)
}

// Wait blocks until background generations have returned.
func (s *Server) Wait() { s.wg.Wait() }

// Routes registers the endpoints on a new router.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/validate", s.ValidateHandler).Methods("POST")
	r.HandleFunc("/payload", s.PayloadHandler).Methods("POST")
	r.HandleFunc("/generate", s.GenerateHandler).Methods("POST")
	r.HandleFunc("/floors", s.FloorsHandler).Methods("GET")
	r.HandleFunc("/floors/{piso}/payload", s.PayloadHandler).Methods("POST")
	r.HandleFunc("/floors/{piso}/generate", s.GenerateHandler).Methods("POST")
	r.HandleFunc("/ws", s.wsHandler).Methods("GET")
	return r
}
