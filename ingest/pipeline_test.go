package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/graphengine/store"
)

func TestBuildShardMap_SmartEdgeFilterExcludesShadowCollection(t *testing.T) {
	dist := map[string]map[string]string{
		"E": {
			"s1": "dbserver1",
			"s2": "dbserver2",
		},
		"_to_E": {
			"s3": "dbserver1",
		},
	}

	shardMap := buildShardMap(dist, []string{"E", "_to_E"})

	require.ElementsMatch(t, []string{"s1"}, shardMap["dbserver1"])
	require.ElementsMatch(t, []string{"s2"}, shardMap["dbserver2"])
}

func TestBuildShardMap_UnrelatedCollectionsPassThrough(t *testing.T) {
	dist := map[string]map[string]string{
		"V": {"s1": "dbserver1"},
	}

	shardMap := buildShardMap(dist, []string{"V"})
	require.Equal(t, []string{"s1"}, shardMap["dbserver1"])
}

func TestPipeline_InsertVertexDocAppendsCollectionName(t *testing.T) {
	g := store.New(true, []string{"weight", store.CollectionNameColumn})
	p := &Pipeline{
		graph: g,
		req:   Request{VertexAttributes: []string{"weight"}},
		log:   logrus.NewEntry(logrus.New()),
	}

	line := []byte(`{"_id":"V/123","weight":4.5}`)
	require.NoError(t, p.insertVertexDoc(line))

	idx, ok := g.ResolveKey([]byte("V/123"))
	require.True(t, ok)

	colIdx, err := g.ColumnIndex(store.CollectionNameColumn)
	require.NoError(t, err)
	require.Equal(t, "V", g.Column(colIdx)[idx])
}

func TestPipeline_InsertEdgeDocSkipsUnresolvedEndpoint(t *testing.T) {
	g := store.New(true, nil)
	_, _ = g.InsertVertex([]byte("V/a"), nil)
	require.NoError(t, g.SealVertices())

	p := &Pipeline{
		graph: g,
		log:   logrus.NewEntry(logrus.New()),
	}

	line := []byte(`{"_from":"V/a","_to":"V/ghost"}`)
	require.NoError(t, p.insertEdgeDoc(line))
	require.Equal(t, uint64(0), g.NumberOfEdges())
}

func TestConsumeNDJSON_SkipsBlankLines(t *testing.T) {
	var count int
	batch := []byte("{\"a\":1}\n\n{\"a\":2}\n")

	err := consumeNDJSON(batch, func(line []byte) error {
		count++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

// TestOpenDumpContexts_ReleasesAndForgetsOnLaterFailure covers spec.md
// §8's dump-cleanup-on-error scenario: when a later dbserver's
// dump/start fails, contexts already opened this call must be both
// released (one DumpDelete each) and dropped from p.dumpContexts, so
// Run's deferred releaseAllDumpContexts does not release them again.
func TestOpenDumpContexts_ReleasesAndForgetsOnLaterFailure(t *testing.T) {
	var dumpStarts, dumpDeletes int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			if atomic.AddInt32(&dumpStarts, 1) == 1 {
				w.Header().Set("X-Arango-Dump-Id", "dump-ok")
				w.WriteHeader(http.StatusCreated)
				return
			}
			w.WriteHeader(http.StatusBadRequest)
		case r.Method == http.MethodDelete:
			atomic.AddInt32(&dumpDeletes, 1)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	p := &Pipeline{
		client: newArangoClient(srv.URL, "", logrus.NewEntry(logrus.New())),
		req:    Request{BatchSize: 10, Parallelism: 1},
		log:    logrus.NewEntry(logrus.New()),
	}

	shardMap := map[string][]string{
		"dbserver-a": {"s1"},
		"dbserver-b": {"s2"},
	}

	_, err := p.openDumpContexts(context.Background(), shardMap)
	require.Error(t, err)

	require.Empty(t, p.dumpContexts, "the released dump context must be forgotten, not left for a second release")
	require.Equal(t, int32(1), atomic.LoadInt32(&dumpDeletes), "exactly one DumpDelete for the one context that was actually opened before the failure")
}
