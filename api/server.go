// Package api serves the binary and JSON HTTP surfaces of spec.md §6
// over github.com/gorilla/mux, translating wire-level requests into
// registry.GraphRegistry / registry.JobRegistry calls and classifying
// every error exactly once, at the response boundary, via wire.Classify.
package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/graphengine/ingest"
	"github.com/katalvlaran/graphengine/registry"
)

// Version constants reported by version/versionBinary (spec.md §6).
const (
	Version = "1.0.0"
	MinAPI  = uint32(1)
	MaxAPI  = uint32(1)
)

// Server owns the registries and routes every endpoint named in
// spec.md §6 to a handler.
type Server struct {
	router *mux.Router

	graphs *registry.GraphRegistry
	jobs   *registry.JobRegistry

	docClient   *ingest.DocumentClient
	bearerToken string

	shutdownFunc func()

	log *logrus.Entry
}

// SetShutdownFunc installs the callback the shutdown endpoint invokes
// (spec.md §6). cmd/graphenginesrv wires this to its own graceful
// termination sequence.
func (s *Server) SetShutdownFunc(fn func()) { s.shutdownFunc = fn }

// NewServer constructs a Server backed by graphs and jobs. docClient is
// used to satisfy load/store job variants' upstream document traffic.
func NewServer(graphs *registry.GraphRegistry, jobs *registry.JobRegistry, docClient *ingest.DocumentClient, bearerToken string, log *logrus.Entry) *Server {
	s := &Server{
		graphs:      graphs,
		jobs:        jobs,
		docClient:   docClient,
		bearerToken: bearerToken,
		log:         log,
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the http.Handler serving all routes, suitable for
// passing to http.Server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/create", s.handleCreate).Methods(http.MethodPost)
	v1.HandleFunc("/dropGraph", s.handleDropGraph).Methods(http.MethodPut)
	v1.HandleFunc("/vertices", s.handleVertices).Methods(http.MethodPost)
	v1.HandleFunc("/sealVertices", s.handleSealVertices).Methods(http.MethodPost)
	v1.HandleFunc("/edges", s.handleEdges).Methods(http.MethodPost)
	v1.HandleFunc("/sealEdges", s.handleSealEdges).Methods(http.MethodPost)
	v1.HandleFunc("/compute", s.handleCompute).Methods(http.MethodPost)
	v1.HandleFunc("/getProgress", s.handleGetProgress).Methods(http.MethodPut)
	v1.HandleFunc("/getResultsByVertices", s.handleGetResultsByVertices).Methods(http.MethodPut)
	v1.HandleFunc("/dropComputation", s.handleDropComputation).Methods(http.MethodPut)
	v1.HandleFunc("/shutdown", s.handleShutdown).Methods(http.MethodDelete)
	v1.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	v1.HandleFunc("/versionBinary", s.handleVersionBinary).Methods(http.MethodGet)

	v1.HandleFunc("/load", s.handleLoad).Methods(http.MethodPost)
	v1.HandleFunc("/store", s.handleStore).Methods(http.MethodPost)

	return r
}

// entryFor returns a request-scoped log entry tagged with the route
// name and a fresh request ID, so a single call's log lines can be
// correlated without threading a context value through every handler
// (spec.md §4.9).
func (s *Server) entryFor(route string) *logrus.Entry {
	return s.log.WithFields(logrus.Fields{"route": route, "request_id": uuid.NewString()})
}
