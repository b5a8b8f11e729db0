package resultwriter_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/graphengine/resultwriter"
)

type fakeSource struct {
	keys   []string
	values []interface{}
}

func (f fakeSource) NumberOfResults() int { return len(f.keys) }
func (f fakeSource) GetResult(i int) (string, interface{}, error) {
	if i < 0 || i >= len(f.keys) {
		return "", nil, fmt.Errorf("out of range")
	}
	return f.keys[i], f.values[i], nil
}

type fakeClient struct {
	mu     sync.Mutex
	batches [][]byte
	fail   bool
}

func (f *fakeClient) PostDocuments(ctx context.Context, collection string, batch []byte) error {
	if f.fail {
		return fmt.Errorf("simulated upstream failure")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, batch)
	return nil
}

func TestWriter_WritesMinimumRowCountAcrossInputs(t *testing.T) {
	client := &fakeClient{}
	w := resultwriter.NewWriter(client, "results", 2, 2, logrus.NewEntry(logrus.New()))

	rank := fakeSource{keys: []string{"V/a", "V/b", "V/c"}, values: []interface{}{0.1, 0.2, 0.3}}
	label := fakeSource{keys: []string{"V/a", "V/b"}, values: []interface{}{"red", "blue"}}

	err := w.Write(context.Background(), []resultwriter.Input{
		{Source: rank, Attribute: "rank"},
		{Source: label, Attribute: "label"},
	})
	require.NoError(t, err)

	client.mu.Lock()
	defer client.mu.Unlock()
	require.NotEmpty(t, client.batches)

	var total int
	for _, b := range client.batches {
		total += countDocs(b)
	}
	require.Equal(t, 2, total) // min(3, 2) == 2
}

func TestWriter_SenderFailureIsSurfaced(t *testing.T) {
	client := &fakeClient{fail: true}
	w := resultwriter.NewWriter(client, "results", 1, 1, logrus.NewEntry(logrus.New()))

	source := fakeSource{keys: []string{"V/a"}, values: []interface{}{1.0}}

	err := w.Write(context.Background(), []resultwriter.Input{{Source: source, Attribute: "rank"}})
	require.Error(t, err)
}

func countDocs(batch []byte) int {
	// batch is a JSON array of objects; count top-level '{' occurrences
	// at depth 1 rather than pulling in a full decode for a test helper.
	depth := 0
	count := 0
	for _, b := range batch {
		switch b {
		case '{':
			if depth == 1 {
				count++
			}
			depth++
		case '}':
			depth--
		case '[':
			depth++
		case ']':
			depth--
		}
	}
	return count
}
