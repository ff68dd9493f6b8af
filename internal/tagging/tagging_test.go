package tagging

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/23skdu/tagmatch/internal/corpus"
	"github.com/23skdu/tagmatch/internal/errors"
	"github.com/23skdu/tagmatch/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `{"items": [
		{"id": "img2", "tags": {"dog": 0.8, "bird": 0.5}},
		{"id": "img1", "tags": {"cat": 0.9, "dog": 0.1}},
		{"id": "blank"}
	]}`)

	items, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, []string{"img2", "img1", "blank"}, IDs(items))
	assert.Equal(t, vocab.LabelMap{"cat": 0.9, "dog": 0.1}, items[1].Labels)
	assert.NotNil(t, items[2].Labels)
	assert.Empty(t, items[2].Labels)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"duplicate", `{"items": [{"id": "a"}, {"id": "a"}]}`, errors.ErrDuplicateItem},
		{"missing id", `{"items": [{"tags": {"cat": 1}}]}`, errors.ErrInvalidLabel},
		{"empty label", `{"items": [{"id": "a", "tags": {"": 1}}]}`, errors.ErrInvalidLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := LoadFile(writeFile(t, `{"items": [`))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStatic(t *testing.T) {
	s := NewStatic([]corpus.Item{{ID: "a", Labels: vocab.LabelMap{"cat": 1}}})

	labels, err := s.ExtractTags(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, vocab.LabelMap{"cat": 1}, labels)

	_, err = s.ExtractTags(context.Background(), "b")
	assert.ErrorIs(t, err, errors.ErrUnknownItem)
}

func TestExtractAll_PreservesOrder(t *testing.T) {
	s := Static{
		"a": {"cat": 0.1},
		"b": {"dog": 0.2},
		"c": {"bird": 0.3},
	}

	items, err := ExtractAll(context.Background(), s, []string{"c", "a", "b"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, IDs(items))
	assert.Equal(t, vocab.LabelMap{"bird": 0.3}, items[0].Labels)
}

func TestExtractAll_FirstErrorWins(t *testing.T) {
	s := Static{"a": {"cat": 0.1}}

	_, err := ExtractAll(context.Background(), s, []string{"a", "missing"}, 0)
	assert.ErrorIs(t, err, errors.ErrUnknownItem)
	assert.Contains(t, err.Error(), `"missing"`)
}

type countingExtractor struct {
	inFlight, peak atomic.Int32
}

func (c *countingExtractor) ExtractTags(_ context.Context, _ string) (vocab.LabelMap, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return vocab.LabelMap{"x": 1}, nil
}

func TestExtractAll_RespectsWorkerLimit(t *testing.T) {
	ex := &countingExtractor{}
	ids := []string{"1", "2", "3", "4", "5", "6", "7", "8"}

	items, err := ExtractAll(context.Background(), ex, ids, 2)
	require.NoError(t, err)
	assert.Len(t, items, len(ids))
	assert.LessOrEqual(t, ex.peak.Load(), int32(2))
}
