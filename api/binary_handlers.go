package api

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"math/rand"
	"net/http"

	"github.com/katalvlaran/graphengine/algorithms"
	"github.com/katalvlaran/graphengine/registry"
	"github.com/katalvlaran/graphengine/store"
	"github.com/katalvlaran/graphengine/wire"
)

// Algorithm ids carried in compute's binary body (spec.md §6). The
// wire format carries no further parameters, so each variant below
// runs with the fixed defaults noted on its case.
const (
	AlgorithmWCC uint32 = iota + 1
	AlgorithmSCC
	AlgorithmPageRank
	AlgorithmIRank
	AlgorithmLabelPropagation
	AlgorithmAttributePropagation
	AlgorithmAggregation
	AlgorithmScript
)

const (
	defaultDamping    = 0.85
	defaultSupersteps = 100
)

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func readUint8(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// writeBinaryError frames status_code_u32 | varlen_message (spec.md §7).
func writeBinaryError(w http.ResponseWriter, err error) {
	classified := wire.Classify(err)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(classified.Kind.HTTPStatus())

	var buf bytes.Buffer
	_ = writeUint32(&buf, uint32(classified.Kind))
	_ = wire.WriteVarlen(&buf, uint32(len(classified.Message)))
	buf.WriteString(classified.Message)
	_, _ = w.Write(buf.Bytes())
}

func badRequest(w http.ResponseWriter, err error) {
	writeBinaryError(w, wire.New(wire.KindBadRequestShape, err.Error()))
}

// handleCreate implements create: 26-byte body
// client_id | max_v | max_e | bits_for_hash | store_keys.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 64))
	if err != nil || len(body) < 26 {
		badRequest(w, store.ErrEmptyKey)
		return
	}
	reader := bytes.NewReader(body)

	clientID, _ := readUint64(reader)
	_, _ = readUint64(reader) // max_v: capacity hint, unused by store.Graph
	_, _ = readUint64(reader) // max_e: capacity hint, unused by store.Graph
	bitsForHash, _ := readUint8(reader)
	storeKeysByte, _ := readUint8(reader)

	graph := store.New(storeKeysByte != 0, []string{"data"})
	graphID := s.graphs.Register(graph)

	var resp bytes.Buffer
	_ = writeUint64(&resp, clientID)
	_ = writeUint64(&resp, graphID)
	resp.WriteByte(bitsForHash)

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(resp.Bytes())
}

// handleDropGraph implements dropGraph: >=16 byte body
// client_id | graph_id.
func (s *Server) handleDropGraph(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 64))
	if err != nil || len(body) < 16 {
		badRequest(w, store.ErrEmptyKey)
		return
	}
	reader := bytes.NewReader(body)
	clientID, _ := readUint64(reader)
	graphID, _ := readUint64(reader)

	if !s.graphs.Drop(graphID) {
		writeBinaryError(w, wire.New(wire.KindNotFound, "graph not found"))
		return
	}

	var resp bytes.Buffer
	_ = writeUint64(&resp, clientID)
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(resp.Bytes())
}

// handleVertices implements vertices: client_id | graph_id | count |
// {varlen key, varlen data}×count. An empty key fails the entire
// batch; vertices already inserted earlier in the same batch remain.
func (s *Server) handleVertices(w http.ResponseWriter, r *http.Request) {
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
	graphID, err := readUint64(reader)
	if err != nil {
		badRequest(w, err)
		return
	}
	count, err := readUint32(reader)
	if err != nil {
		badRequest(w, err)
		return
	}

	graph, ok := s.graphs.Get(graphID)
	if !ok {
		writeBinaryError(w, wire.New(wire.KindNotFound, "graph not found"))
		return
	}

	var inserted uint32
	for i := uint32(0); i < count; i++ {
		key, err := wire.ReadVarlen(reader)
		if err != nil {
			badRequest(w, err)
			return
		}
		keyBytes := make([]byte, key)
		if _, err := io.ReadFull(reader, keyBytes); err != nil {
			badRequest(w, err)
			return
		}
		dataLen, err := wire.ReadVarlen(reader)
		if err != nil {
			badRequest(w, err)
			return
		}
		data := make([]byte, dataLen)
		if _, err := io.ReadFull(reader, data); err != nil {
			badRequest(w, err)
			return
		}

		if len(keyBytes) == 0 {
			writeBinaryError(w, store.ErrEmptyKey)
			return
		}
		if _, err := graph.InsertVertex(keyBytes, []interface{}{data}); err != nil {
			writeBinaryError(w, err)
			return
		}
		inserted++
	}

	var resp bytes.Buffer
	_ = writeUint64(&resp, clientID)
	_ = writeUint32(&resp, 0) // exceptional-rehash count: not surfaced by store.VertexKeyIndex's public API
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(resp.Bytes())
}

// handleSealVertices implements sealVertices: seals the vertex set and
// returns the vertex count.
func (s *Server) handleSealVertices(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 16))
	if err != nil || len(body) < 16 {
		badRequest(w, store.ErrEmptyKey)
		return
	}
	reader := bytes.NewReader(body)
	clientID, _ := readUint64(reader)
	graphID, _ := readUint64(reader)

	graph, ok := s.graphs.Get(graphID)
	if !ok {
		writeBinaryError(w, wire.New(wire.KindNotFound, "graph not found"))
		return
	}
	if err := graph.SealVertices(); err != nil {
		writeBinaryError(w, err)
		return
	}

	var resp bytes.Buffer
	_ = writeUint64(&resp, clientID)
	_ = writeUint64(&resp, uint64(graph.NumberOfVertices()))
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(resp.Bytes())
}

// handleEdges implements edges: client_id | graph_id | count |
// {KeyOrHash from, KeyOrHash to, varlen data}×count. Edge data is
// accepted and discarded: the Graph's edge list carries no per-edge
// attribute column (spec.md §4.3 only column-stores vertex attributes).
func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
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
	graphID, err := readUint64(reader)
	if err != nil {
		badRequest(w, err)
		return
	}
	count, err := readUint32(reader)
	if err != nil {
		badRequest(w, err)
		return
	}

	graph, ok := s.graphs.Get(graphID)
	if !ok {
		writeBinaryError(w, wire.New(wire.KindNotFound, "graph not found"))
		return
	}

	var unresolved []uint32
	for i := uint32(0); i < count; i++ {
		from, err := wire.ReadKeyOrHash(reader)
		if err != nil {
			badRequest(w, err)
			return
		}
		to, err := wire.ReadKeyOrHash(reader)
		if err != nil {
			badRequest(w, err)
			return
		}
		dataLen, err := wire.ReadVarlen(reader)
		if err != nil {
			badRequest(w, err)
			return
		}
		if _, err := io.CopyN(io.Discard, reader, int64(dataLen)); err != nil {
			badRequest(w, err)
			return
		}

		fromIdx, fromOK := resolveKeyOrHash(graph, from)
		toIdx, toOK := resolveKeyOrHash(graph, to)
		if !fromOK || !toOK {
			unresolved = append(unresolved, i)
			continue
		}
		if err := graph.InsertEdge(fromIdx, toIdx); err != nil {
			writeBinaryError(w, err)
			return
		}
	}

	var resp bytes.Buffer
	_ = writeUint64(&resp, clientID)
	_ = writeUint32(&resp, uint32(len(unresolved)))
	for _, idx := range unresolved {
		_ = writeUint32(&resp, idx)
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(resp.Bytes())
}

func resolveKeyOrHash(graph *store.Graph, kh wire.KeyOrHash) (uint32, bool) {
	if kh.HasHash() {
		return 0, false // hash-only resolution requires a hash->index path store.Graph does not expose publicly
	}
	return graph.ResolveKey(kh.Key)
}

// handleSealEdges implements sealEdges: client_id | graph_id |
// index_edges (bit 0 = by-from, bit 1 = by-to).
func (s *Server) handleSealEdges(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 32))
	if err != nil || len(body) < 17 {
		badRequest(w, store.ErrEmptyKey)
		return
	}
	reader := bytes.NewReader(body)
	clientID, _ := readUint64(reader)
	graphID, _ := readUint64(reader)
	indexMask, _ := readUint8(reader)

	graph, ok := s.graphs.Get(graphID)
	if !ok {
		writeBinaryError(w, wire.New(wire.KindNotFound, "graph not found"))
		return
	}
	if err := graph.SealEdges(); err != nil {
		writeBinaryError(w, err)
		return
	}
	if indexMask != 0 {
		if err := graph.IndexEdges(indexMask&0x01 != 0, indexMask&0x02 != 0); err != nil {
			writeBinaryError(w, err)
			return
		}
	}

	var resp bytes.Buffer
	_ = writeUint64(&resp, clientID)
	_ = writeUint64(&resp, graph.NumberOfEdges())
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(resp.Bytes())
}

// handleCompute implements compute: client_id | graph_id |
// algorithm_id. The wire body carries no further parameters, so each
// variant runs with a fixed default configuration.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 32))
	if err != nil || len(body) < 20 {
		badRequest(w, store.ErrEmptyKey)
		return
	}
	reader := bytes.NewReader(body)
	clientID, _ := readUint64(reader)
	graphID, _ := readUint64(reader)
	algorithmID, _ := readUint32(reader)

	graph, ok := s.graphs.Get(graphID)
	if !ok {
		writeBinaryError(w, wire.New(wire.KindNotFound, "graph not found"))
		return
	}

	job, err := s.newComputeJob(graph, algorithmID)
	if err != nil {
		writeBinaryError(w, err)
		return
	}
	compID := s.jobs.Spawn(context.Background(), job, job.Run)

	var resp bytes.Buffer
	_ = writeUint64(&resp, clientID)
	_ = writeUint64(&resp, compID)
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(resp.Bytes())
}

// runnableJob is every registry.Job variant plus its own Run method;
// Run is concrete-type-specific so it cannot live on the Job interface
// itself (each variant's Run signature only differs in what it closes
// over, not in shape).
type runnableJob interface {
	registry.Job
	Run(ctx context.Context)
}

// newComputeJob builds the registry.Job variant named by algorithmID,
// using the fixed default parameters noted on each case (spec.md §6's
// compute body carries only client_id | graph_id | algorithm_id).
func (s *Server) newComputeJob(graph *store.Graph, algorithmID uint32) (runnableJob, error) {
	log := s.entryFor("compute")

	switch algorithmID {
	case AlgorithmWCC:
		return registry.NewComponentsJob(graph, registry.ComponentsWCC, "wcc", log), nil
	case AlgorithmSCC:
		return registry.NewComponentsJob(graph, registry.ComponentsSCC, "scc", log), nil
	case AlgorithmPageRank:
		return registry.NewRankJob(graph, registry.RankPageRank, defaultDamping, defaultSupersteps, "pagerank", log), nil
	case AlgorithmIRank:
		return registry.NewRankJob(graph, registry.RankIRank, defaultDamping, defaultSupersteps, "irank", log), nil
	case AlgorithmLabelPropagation:
		initial := vertexKeysAsLabels(graph)
		return registry.NewLabelPropagationJob(graph, initial, true, algorithms.TieBreakDeterministic, defaultSupersteps, nil, "label_propagation", log), nil
	case AlgorithmAttributePropagation:
		initial := vertexKeysAsLabelSets(graph)
		return registry.NewAttributePropagationJob(graph, initial, false, defaultSupersteps, true, (*rand.Rand)(nil), "attribute_propagation", log), nil
	case AlgorithmScript:
		return registry.NewScriptJob("script", log), nil
	case AlgorithmAggregation:
		// Aggregation reduces another job's results, not a graph; it has
		// no natural invocation through a graph-scoped compute call and
		// is reachable only via a dedicated JSON endpoint in a fuller
		// deployment. Binary compute rejects it outright.
		return nil, wire.New(wire.KindBadRequestShape, "aggregation jobs are not invocable via compute")
	default:
		return nil, wire.New(wire.KindUnknownAlgorithm, "unrecognised algorithm id")
	}
}

// vertexKeysAsLabels seeds label propagation with each vertex's own key
// string, matching the original's "each vertex initially labelled with
// its own id" scenario (spec.md §8 scenario 4).
func vertexKeysAsLabels(graph *store.Graph) []string {
	n := graph.NumberOfVertices()
	labels := make([]string, n)
	for v := uint32(0); v < n; v++ {
		key, err := graph.KeyAt(v)
		if err != nil {
			continue
		}
		labels[v] = string(key)
	}
	return labels
}

func vertexKeysAsLabelSets(graph *store.Graph) [][]string {
	keys := vertexKeysAsLabels(graph)
	sets := make([][]string, len(keys))
	for i, k := range keys {
		sets[i] = []string{k}
	}
	return sets
}
