package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestArangoClient_ShardDistributionParsesPlanLeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/_admin/cluster/shardDistribution", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":{"V":{"Plan":{"s1":{"leader":"dbserver1","followers":[]}}}}}`))
	}))
	defer srv.Close()

	client := newArangoClient(srv.URL, "", logrus.NewEntry(logrus.New()))
	dist, err := client.ShardDistribution(context.Background())
	require.NoError(t, err)
	require.Equal(t, "dbserver1", dist["V"]["s1"])
}

func TestArangoClient_DumpStartReturnsDumpID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Arango-Dump-Id", "dump-42")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := newArangoClient(srv.URL, "tok", logrus.NewEntry(logrus.New()))
	dumpID, err := client.DumpStart(context.Background(), "dbserver1", dumpStartRequest{BatchSize: 100})
	require.NoError(t, err)
	require.Equal(t, "dump-42", dumpID)
}

func TestArangoClient_DumpNextSignalsEndOfStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newArangoClient(srv.URL, "", logrus.NewEntry(logrus.New()))
	body, eof, err := client.DumpNext(context.Background(), "dbserver1", "dump-1", 0, -1)
	require.NoError(t, err)
	require.True(t, eof)
	require.Nil(t, body)
}

func TestArangoClient_PostDocumentsSurfacesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := newArangoClient(srv.URL, "", logrus.NewEntry(logrus.New()))
	err := client.PostDocuments(context.Background(), "V", []byte(`[]`))
	require.Error(t, err)
}
