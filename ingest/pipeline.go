package ingest

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/graphengine/store"
)

// Request describes one ShardedIngestPipeline run (spec.md §4.6 / §6
// JSON ingress dialect).
type Request struct {
	Endpoints         []string
	Database          string
	VertexCollections []string
	EdgeCollections   []string
	VertexAttributes  []string
	Parallelism       int
	BatchSize         int
}

// rawDoc is the shape every NDJSON line is expected to carry: the
// external `<collection>/<key>` id, the edge endpoints (edge documents
// only), and the free-form attribute bag.
type rawDoc struct {
	ID         string                 `json:"_id"`
	From       string                 `json:"_from"`
	To         string                 `json:"_to"`
	Attributes map[string]interface{} `json:"-"`
}

func (d *rawDoc) UnmarshalJSON(data []byte) error {
	type alias rawDoc
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = rawDoc(a)

	var bag map[string]interface{}
	if err := json.Unmarshal(data, &bag); err != nil {
		return err
	}
	delete(bag, "_id")
	delete(bag, "_from")
	delete(bag, "_to")
	delete(bag, "_key")
	delete(bag, "_rev")
	d.Attributes = bag

	return nil
}

// Pipeline runs one ingest against a building store.Graph. It owns no
// state beyond a single run: callers construct one Pipeline per load.
type Pipeline struct {
	client *arangoClient
	req    Request
	graph  *store.Graph
	log    *logrus.Entry

	dumpContextsMu sync.Mutex
	dumpContexts   []dumpContext
}

type dumpContext struct {
	dbserver string
	dumpID   string
}

// NewPipeline constructs a Pipeline that will ingest into graph using
// req's collections, writing its log lines through log.
func NewPipeline(req Request, graph *store.Graph, bearerToken string, log *logrus.Entry) *Pipeline {
	endpoint := ""
	if len(req.Endpoints) > 0 {
		endpoint = req.Endpoints[0]
	}
	return &Pipeline{
		client: newArangoClient(endpoint, bearerToken, log),
		req:    req,
		graph:  graph,
		log:    log,
	}
}

// Run executes the full protocol of spec.md §4.6: shard distribution,
// vertex ingest + seal, edge ingest + seal. onPhase(1) fires once
// vertices are sealed, onPhase(2) once edges are sealed.
func (p *Pipeline) Run(ctx context.Context, onPhase func(phase int)) (err error) {
	defer p.releaseAllDumpContexts(context.Background())

	dist, err := p.client.ShardDistribution(ctx)
	if err != nil {
		return err
	}

	vertexShardMap := buildShardMap(dist, p.req.VertexCollections)
	if len(vertexShardMap) == 0 {
		return ErrNoDBServers
	}
	if err := p.ingestPhase(ctx, vertexShardMap, p.insertVertexDoc); err != nil {
		return err
	}
	if err := p.graph.SealVertices(); err != nil {
		return err
	}
	if onPhase != nil {
		onPhase(1)
	}

	edgeShardMap := buildShardMap(dist, p.req.EdgeCollections)
	if len(edgeShardMap) == 0 {
		return ErrNoDBServers
	}
	if err := p.ingestPhase(ctx, edgeShardMap, p.insertEdgeDoc); err != nil {
		return err
	}
	if err := p.graph.SealEdges(); err != nil {
		return err
	}
	if onPhase != nil {
		onPhase(2)
	}

	return nil
}

// buildShardMap builds dbserver -> [shards] restricted to the
// requested collections, applying the smart-edge filter: when both a
// collection X and its shadow _to_X are requested, _to_X's shards are
// dropped to avoid double-counting (spec.md §4.6 step 2).
func buildShardMap(dist map[string]map[string]string, requested []string) map[string][]string {
	requestedSet := make(map[string]bool, len(requested))
	for _, c := range requested {
		requestedSet[c] = true
	}

	excluded := make(map[string]bool)
	for _, c := range requested {
		if strings.HasPrefix(c, "_to_") && requestedSet[strings.TrimPrefix(c, "_to_")] {
			excluded[c] = true
		}
	}

	shardMap := make(map[string][]string)
	for _, collection := range requested {
		if excluded[collection] {
			continue
		}
		for shard, leader := range dist[collection] {
			shardMap[leader] = append(shardMap[leader], shard)
		}
	}

	return shardMap
}

// ingestPhase opens a dump context per dbserver, fans out fetchers, and
// drains their batches into insert across parallelism consumer
// channels, until every fetcher reports end-of-stream.
func (p *Pipeline) ingestPhase(ctx context.Context, shardMap map[string][]string, insert func([]byte) error) error {
	contexts, err := p.openDumpContexts(ctx, shardMap)
	if err != nil {
		return err
	}

	parallelism := p.req.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	channels := make([]chan []byte, parallelism)
	for i := range channels {
		channels[i] = make(chan []byte, parallelism)
	}

	group, gctx := errgroup.WithContext(ctx)

	var nextChannel int
	var dispatchMu sync.Mutex
	dispatch := func(batch []byte) {
		dispatchMu.Lock()
		ch := channels[nextChannel%len(channels)]
		nextChannel++
		dispatchMu.Unlock()
		ch <- batch
	}

	perServerParallelism := (parallelism + len(contexts) - 1) / len(contexts)
	if perServerParallelism < 1 {
		perServerParallelism = 1
	}

	for _, dc := range contexts {
		dc := dc
		group.Go(func() error {
			return p.fetchLoop(gctx, dc, perServerParallelism, dispatch)
		})
	}

	consumerGroup, _ := errgroup.WithContext(ctx)
	for _, ch := range channels {
		ch := ch
		consumerGroup.Go(func() error {
			for batch := range ch {
				if err := consumeNDJSON(batch, insert); err != nil {
					return err
				}
			}
			return nil
		})
	}

	fetchErr := group.Wait()
	for _, ch := range channels {
		close(ch)
	}
	consumeErr := consumerGroup.Wait()

	if fetchErr != nil {
		return fetchErr
	}
	return consumeErr
}

// fetchLoop requests successive batches for one dump context until the
// server signals end-of-stream, dispatching each non-empty batch.
func (p *Pipeline) fetchLoop(ctx context.Context, dc dumpContext, perServerParallelism int, dispatch func([]byte)) error {
	batchID := 0
	lastBatch := -1

	for {
		body, eof, err := p.client.DumpNext(ctx, dc.dbserver, dc.dumpID, batchID, lastBatch)
		if err != nil {
			return err
		}
		if eof {
			return nil
		}
		if len(body) > 0 {
			dispatch(body)
		}

		lastBatch = batchID
		batchID += perServerParallelism
	}
}

func consumeNDJSON(batch []byte, insert func([]byte) error) error {
	scanner := bufio.NewScanner(bytes.NewReader(batch))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if err := insert(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (p *Pipeline) insertVertexDoc(line []byte) error {
	var doc rawDoc
	if err := json.Unmarshal(line, &doc); err != nil {
		p.log.WithError(err).Warn("skipping malformed vertex document")
		return nil
	}

	values := make([]interface{}, 0, len(p.req.VertexAttributes)+1)
	for _, attr := range p.req.VertexAttributes {
		values = append(values, doc.Attributes[attr])
	}
	// The synthetic @collection_name value is always appended last, so a
	// Graph for ingest must be constructed with that column last (see
	// job_load.go).
	values = append(values, store.CollectionOf([]byte(doc.ID)))

	_, err := p.graph.InsertVertex([]byte(doc.ID), values)
	return err
}

func (p *Pipeline) insertEdgeDoc(line []byte) error {
	var doc rawDoc
	if err := json.Unmarshal(line, &doc); err != nil {
		p.log.WithError(err).Warn("skipping malformed edge document")
		return nil
	}

	err := p.graph.InsertEdgeBetweenKeys([]byte(doc.From), []byte(doc.To))
	if err != nil {
		p.log.WithFields(logrus.Fields{"from": doc.From, "to": doc.To}).Warn("skipping edge with unresolved endpoint")
		return nil
	}

	return nil
}

func (p *Pipeline) openDumpContexts(ctx context.Context, shardMap map[string][]string) ([]dumpContext, error) {
	var opened []dumpContext

	for dbserver, shards := range shardMap {
		dumpID, err := p.client.DumpStart(ctx, dbserver, dumpStartRequest{
			BatchSize:     p.req.BatchSize,
			PrefetchCount: p.req.Parallelism,
			Parallelism:   p.req.Parallelism,
			Shards:        shards,
		})
		if err != nil {
			p.releaseDumpContexts(context.Background(), opened)
			p.forgetDumpContexts(opened)
			return nil, err
		}

		dc := dumpContext{dbserver: dbserver, dumpID: dumpID}
		opened = append(opened, dc)

		p.dumpContextsMu.Lock()
		p.dumpContexts = append(p.dumpContexts, dc)
		p.dumpContextsMu.Unlock()
	}

	return opened, nil
}

// forgetDumpContexts removes released entries from p.dumpContexts so
// Run's deferred releaseAllDumpContexts does not issue a second
// DumpDelete for the same IDs.
func (p *Pipeline) forgetDumpContexts(released []dumpContext) {
	if len(released) == 0 {
		return
	}

	p.dumpContextsMu.Lock()
	defer p.dumpContextsMu.Unlock()

	remaining := p.dumpContexts[:0]
	for _, dc := range p.dumpContexts {
		keep := true
		for _, r := range released {
			if dc == r {
				keep = false
				break
			}
		}
		if keep {
			remaining = append(remaining, dc)
		}
	}
	p.dumpContexts = remaining
}

func (p *Pipeline) releaseDumpContexts(ctx context.Context, contexts []dumpContext) {
	for _, dc := range contexts {
		if err := p.client.DumpDelete(ctx, dc.dbserver, dc.dumpID); err != nil {
			p.log.WithError(err).Warn("failed to release dump context during cleanup")
		}
	}
}

func (p *Pipeline) releaseAllDumpContexts(ctx context.Context) {
	p.dumpContextsMu.Lock()
	contexts := p.dumpContexts
	p.dumpContexts = nil
	p.dumpContextsMu.Unlock()

	p.releaseDumpContexts(ctx, contexts)
}
