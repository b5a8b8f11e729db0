package resultwriter

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ResultSource is the narrow slice of registry.Job a ResultWriter needs:
// enough to enumerate (key, value) pairs without depending on the job's
// algorithm, progress, or cancellation machinery.
type ResultSource interface {
	NumberOfResults() int
	GetResult(i int) (key string, value interface{}, err error)
}

// documentClient is the write-back transport, satisfied by
// *ingest.DocumentClient without resultwriter importing ingest's
// internal package surface beyond that one exported type.
type documentClient interface {
	PostDocuments(ctx context.Context, collection string, batch []byte) error
}

// Input is one computation's contribution to a write-back: its result
// source and the attribute name its values are written under.
type Input struct {
	Source    ResultSource
	Attribute string
}

// Writer pushes a set of completed computations' results back to the
// source database as batched document writes (spec.md §4.7).
type Writer struct {
	client     documentClient
	collection string
	batchSize  int
	parallelism int
	log        *logrus.Entry
}

// NewWriter constructs a Writer targeting collection with the given
// batch size and sender parallelism.
func NewWriter(client documentClient, collection string, batchSize, parallelism int, log *logrus.Entry) *Writer {
	if batchSize < 1 {
		batchSize = 1
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &Writer{client: client, collection: collection, batchSize: batchSize, parallelism: parallelism, log: log}
}

// Write computes M = min(NumberOfResults) across inputs, then walks
// rows [0, M), synthesising one JSON document per row keyed by the
// first input's id, batches them, and sends the batches round-robin to
// Writer.parallelism sender tasks.
func (w *Writer) Write(ctx context.Context, inputs []Input) error {
	if len(inputs) == 0 {
		return nil
	}

	m := inputs[0].Source.NumberOfResults()
	for _, in := range inputs[1:] {
		if n := in.Source.NumberOfResults(); n < m {
			m = n
		}
	}

	channels := make([]chan []byte, w.parallelism)
	for i := range channels {
		channels[i] = make(chan []byte, w.parallelism)
	}

	group, gctx := errgroup.WithContext(ctx)
	for _, ch := range channels {
		ch := ch
		group.Go(func() error {
			for batch := range ch {
				if err := w.client.PostDocuments(gctx, w.collection, batch); err != nil {
					return err
				}
			}
			return nil
		})
	}

	producerErr := w.produce(ctx, inputs, m, channels)
	for _, ch := range channels {
		close(ch)
	}
	senderErr := group.Wait()

	if producerErr != nil {
		return producerErr
	}
	return senderErr
}

func (w *Writer) produce(ctx context.Context, inputs []Input, m int, channels []chan []byte) error {
	var batch []map[string]interface{}
	var nextChannel int

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		data, err := json.Marshal(batch)
		if err != nil {
			return fmt.Errorf("resultwriter: marshalling batch: %w", err)
		}

		select {
		case channels[nextChannel%len(channels)] <- data:
			nextChannel++
		case <-ctx.Done():
			return ctx.Err()
		}

		batch = batch[:0]
		return nil
	}

	for i := 0; i < m; i++ {
		row := make(map[string]interface{}, len(inputs)+1)
		for idx, in := range inputs {
			key, value, err := in.Source.GetResult(i)
			if err != nil {
				return fmt.Errorf("resultwriter: GetResult(%d): %w", i, err)
			}
			if idx == 0 {
				row["id"] = key
			}
			row[in.Attribute] = value
		}
		batch = append(batch, row)

		if len(batch) >= w.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}
