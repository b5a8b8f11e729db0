package api

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/graphengine/store"
	"github.com/katalvlaran/graphengine/wire"
)

// handleGetProgress implements getProgress: client_id | comp_id ->
// client_id | total | progress | ready | failed. Row-level results are
// fetched separately via getResultsByVertices; this endpoint only
// reports coarse progress and final status (spec.md §6's
// "optional_result_payload" is realised as the ready/failed flags
// rather than inlined row data, since row data is keyed by vertex and
// belongs to the dedicated results endpoint).
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 16))
	if err != nil || len(body) < 16 {
		badRequest(w, store.ErrEmptyKey)
		return
	}
	reader := bytes.NewReader(body)
	clientID, _ := readUint64(reader)
	compID, _ := readUint64(reader)

	job, ok := s.jobs.Get(compID)
	if !ok {
		writeBinaryError(w, wire.New(wire.KindNotFound, "computation not found"))
		return
	}

	progress, total := job.Progress()
	ready := job.IsReady()

	var resp bytes.Buffer
	_ = writeUint64(&resp, clientID)
	_ = writeUint64(&resp, total)
	_ = writeUint64(&resp, progress)
	if ready {
		resp.WriteByte(1)
	} else {
		resp.WriteByte(0)
	}
	if ready && job.Err() != nil {
		resp.WriteByte(1)
	} else {
		resp.WriteByte(0)
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(resp.Bytes())
}

// Result value type tags used by getResultsByVertices.
const (
	valueTagFloat64 byte = iota
	valueTagInt
	valueTagString
	valueTagStringSet
)

// handleGetResultsByVertices implements getResultsByVertices: client_id
// | comp_id | count | {KeyOrHash}×count -> client_id | count |
// {status, [tag, payload]}×count.
func (s *Server) handleGetResultsByVertices(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		badRequest(w, err)
		return
	}
	reader := bytes.NewReader(body)

	clientID, err := readUint64(reader)
	if err != nil {
		badRequest(w, err)
		return
	}
	compID, err := readUint64(reader)
	if err != nil {
		badRequest(w, err)
		return
	}
	count, err := readUint32(reader)
	if err != nil {
		badRequest(w, err)
		return
	}

	job, ok := s.jobs.Get(compID)
	if !ok {
		writeBinaryError(w, wire.New(wire.KindNotFound, "computation not found"))
		return
	}
	if !job.IsReady() {
		writeBinaryError(w, wire.New(wire.KindJobNotReady, "computation not ready"))
		return
	}
	graph := job.Graph()

	var resp bytes.Buffer
	_ = writeUint64(&resp, clientID)
	_ = writeUint32(&resp, count)

	for i := uint32(0); i < count; i++ {
		kh, err := wire.ReadKeyOrHash(reader)
		if err != nil {
			badRequest(w, err)
			return
		}

		index, ok := uint32(0), false
		if graph != nil {
			index, ok = resolveKeyOrHash(graph, kh)
		}
		if !ok {
			resp.WriteByte(0)
			continue
		}

		_, value, err := job.GetResult(int(index))
		if err != nil {
			resp.WriteByte(0)
			continue
		}

		resp.WriteByte(1)
		encodeResultValue(&resp, value)
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(resp.Bytes())
}

func encodeResultValue(w *bytes.Buffer, value interface{}) {
	switch v := value.(type) {
	case float64:
		w.WriteByte(valueTagFloat64)
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		w.Write(buf[:])
	case int:
		w.WriteByte(valueTagInt)
		_ = wire.WriteVarlen(w, uint32(v))
	case string:
		w.WriteByte(valueTagString)
		_ = wire.WriteVarlen(w, uint32(len(v)))
		w.WriteString(v)
	case []string:
		w.WriteByte(valueTagStringSet)
		_ = wire.WriteVarlen(w, uint32(len(v)))
		for _, s := range v {
			_ = wire.WriteVarlen(w, uint32(len(s)))
			w.WriteString(s)
		}
	default:
		w.WriteByte(valueTagString)
		_ = wire.WriteVarlen(w, 0)
	}
}

// handleDropComputation implements dropComputation: client_id |
// comp_id -> cancels and removes the job.
func (s *Server) handleDropComputation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 16))
	if err != nil || len(body) < 16 {
		badRequest(w, store.ErrEmptyKey)
		return
	}
	reader := bytes.NewReader(body)
	clientID, _ := readUint64(reader)
	compID, _ := readUint64(reader)

	if !s.jobs.Drop(compID) {
		writeBinaryError(w, wire.New(wire.KindNotFound, "computation not found"))
		return
	}

	var resp bytes.Buffer
	_ = writeUint64(&resp, clientID)
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(resp.Bytes())
}

// handleShutdown implements shutdown: triggers graceful termination via
// the callback installed by cmd/graphenginesrv's process wiring.
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	log := s.entryFor("shutdown")
	log.WithFields(logrus.Fields{
		"live_graphs": s.graphs.IDs(),
		"live_jobs":   s.jobs.IDs(),
	}).Info("shutdown requested")

	if s.shutdownFunc != nil {
		go s.shutdownFunc()
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleVersion implements the JSON version endpoint.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"version":"` + Version + `","min_api":` + itoa(MinAPI) + `,"max_api":` + itoa(MaxAPI) + `}`))
}

// handleVersionBinary implements the binary version endpoint: varlen
// version string | min_api u32 | max_api u32.
func (s *Server) handleVersionBinary(w http.ResponseWriter, r *http.Request) {
	var resp bytes.Buffer
	_ = wire.WriteVarlen(&resp, uint32(len(Version)))
	resp.WriteString(Version)
	_ = writeUint32(&resp, MinAPI)
	_ = writeUint32(&resp, MaxAPI)

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(resp.Bytes())
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var digits [10]byte
	n := len(digits)
	for v > 0 {
		n--
		digits[n] = byte('0' + v%10)
		v /= 10
	}
	return string(digits[n:])
}
