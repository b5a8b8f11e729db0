package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// arangoClient is a thin, authenticated HTTP client over the external
// database contract of spec.md §6/§9: shard distribution, dump
// context lifecycle, and document writes. It never retries beyond
// dump/start (spec.md §7: ingest upstream errors otherwise abort the
// job immediately).
type arangoClient struct {
	httpClient  *http.Client
	endpoint    string
	bearerToken string
	log         *logrus.Entry
}

func newArangoClient(endpoint, bearerToken string, log *logrus.Entry) *arangoClient {
	return &arangoClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   strings.TrimRight(endpoint, "/"),
		bearerToken: bearerToken,
		log:        log,
	}
}

// shardLocation is one shard's Plan entry in a shardDistribution response.
type shardLocation struct {
	Leader    string   `json:"leader"`
	Followers []string `json:"followers"`
}

type collectionShards struct {
	Plan map[string]shardLocation `json:"Plan"`
}

type shardDistributionResponse struct {
	Results map[string]collectionShards `json:"results"`
}

// ShardDistribution queries /_admin/cluster/shardDistribution and
// returns, per collection, the shard→leader mapping.
func (c *arangoClient) ShardDistribution(ctx context.Context) (map[string]map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/_admin/cluster/shardDistribution", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ingest: shardDistribution request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(resp)
	}

	var parsed shardDistributionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ingest: decoding shardDistribution response: %w", err)
	}

	out := make(map[string]map[string]string, len(parsed.Results))
	for collection, shards := range parsed.Results {
		leaders := make(map[string]string, len(shards.Plan))
		for shard, loc := range shards.Plan {
			leaders[shard] = loc.Leader
		}
		out[collection] = leaders
	}

	return out, nil
}

// dumpStartRequest is the body of POST /_api/dump/start.
type dumpStartRequest struct {
	BatchSize     int      `json:"batchSize"`
	PrefetchCount int      `json:"prefetchCount"`
	Parallelism   int      `json:"parallelism"`
	Shards        []string `json:"shards"`
}

// DumpStart opens a dump context on dbserver, retrying with bounded
// exponential backoff (spec.md §5: the one upstream call this pipeline
// retries). It returns the server-issued X-Arango-Dump-Id.
func (c *arangoClient) DumpStart(ctx context.Context, dbserver string, req dumpStartRequest) (string, error) {
	var dumpID string

	operation := func() error {
		body, err := json.Marshal(req)
		if err != nil {
			return backoff.Permanent(err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
			fmt.Sprintf("%s/_api/dump/start?dbserver=%s", c.endpoint, dbserver), bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		c.authorize(httpReq)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return err // network errors are retryable
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusNoContent:
			dumpID = resp.Header.Get("X-Arango-Dump-Id")
			return nil
		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return upstreamError(resp) // retryable upstream conditions
		default:
			return backoff.Permanent(upstreamError(resp))
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDumpStartFailed, dbserver, err)
	}

	return dumpID, nil
}

// DumpNext requests the next batch for (dumpID, batchID), passing
// lastBatch so the server may release its memory for that round. eof
// is true on a 204 No Content response.
func (c *arangoClient) DumpNext(ctx context.Context, dbserver, dumpID string, batchID, lastBatch int) (body []byte, eof bool, err error) {
	url := fmt.Sprintf("%s/_api/dump/next/%s?dbserver=%s&batchId=%s&lastBatch=%s",
		c.endpoint, dumpID, dbserver, strconv.Itoa(batchID), strconv.Itoa(lastBatch))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, false, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("ingest: dump/next request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, upstreamError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("ingest: reading dump/next body: %w", err)
	}

	return data, false, nil
}

// DumpDelete releases a dump context. Called unconditionally during
// pipeline cleanup, even when the pipeline is failing for another
// reason (spec.md §4.6 step 7).
func (c *arangoClient) DumpDelete(ctx context.Context, dbserver, dumpID string) error {
	url := fmt.Sprintf("%s/_api/dump/%s?dbserver=%s", c.endpoint, dumpID, dbserver)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ingest: dump delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.log.WithFields(logrus.Fields{"dbserver": dbserver, "dump_id": dumpID, "status": resp.StatusCode}).
			Warn("dump context cleanup returned non-2xx status")
	}

	return nil
}

// PostDocuments writes a batch of documents to collection with
// overwriteMode=update; resultwriter uses it, through DocumentClient,
// for the write-back path.
func (c *arangoClient) PostDocuments(ctx context.Context, collection string, batch []byte) error {
	url := fmt.Sprintf("%s/_api/document/%s?overwriteMode=update&silent=false", c.endpoint, collection)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(batch))
	if err != nil {
		return err
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ingest: document post request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return upstreamError(resp)
	}

	return nil
}

// DocumentClient is the exported, narrow document-write surface of
// arangoClient, shared by resultwriter so the write-back path reuses
// the same authenticated HTTP plumbing as ingest instead of duplicating
// it (spec.md §4.7).
type DocumentClient struct {
	inner *arangoClient
}

// NewDocumentClient constructs a DocumentClient talking to endpoint.
func NewDocumentClient(endpoint, bearerToken string, log *logrus.Entry) *DocumentClient {
	return &DocumentClient{inner: newArangoClient(endpoint, bearerToken, log)}
}

// PostDocuments writes a batch of documents to collection.
func (c *DocumentClient) PostDocuments(ctx context.Context, collection string, batch []byte) error {
	return c.inner.PostDocuments(ctx, collection, batch)
}

func (c *arangoClient) authorize(req *http.Request) {
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
}

func upstreamError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("ingest: upstream status %d: %s", resp.StatusCode, string(body))
}
