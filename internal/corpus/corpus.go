// Package corpus holds the vectorized items a query is compared against.
//
// A Corpus is immutable once built. Its vectors live in a single Arrow record
// (an "id" utf8 column and an "embedding" fixed_size_list<float64> column)
// and are exposed as zero-copy slices into that record.
package corpus

import (
	"github.com/23skdu/tagmatch/internal/errors"
	"github.com/23skdu/tagmatch/internal/metrics"
	"github.com/23skdu/tagmatch/internal/vocab"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

const (
	idField        = "id"
	embeddingField = "embedding"
)

// Item is one tagged image: its identifier and the labels a tagger produced.
type Item struct {
	ID     string         `json:"id"`
	Labels vocab.LabelMap `json:"tags"`
}

// Corpus is an insertion-ordered, immutable mapping from item id to feature
// vector. All vectors share one dimensionality.
type Corpus struct {
	id          uuid.UUID
	fingerprint uint64
	vocabulary  *vocab.Vocabulary
	dim         int
	ids         []string
	index       map[string]int
	vectors     [][]float64
	record      arrow.Record
}

// Build validates and vectorizes items against v, preserving item order.
func Build(mem memory.Allocator, v *vocab.Vocabulary, items []Item) (*Corpus, error) {
	ids := make([]string, len(items))
	vectors := make([][]float64, len(items))
	for i, item := range items {
		if err := vocab.Validate(item.Labels); err != nil {
			return nil, errors.WrapInputError(err, "corpus.Build", "invalid labels").
				WithContext("item", item.ID)
		}
		ids[i] = item.ID
		vectors[i] = v.Vectorize(item.Labels)
	}

	c, err := newCorpus(mem, v, v.Len(), ids, vectors)
	if err != nil {
		return nil, err
	}
	metrics.VocabularySize.Set(float64(v.Len()))
	return c, nil
}

// BuildWithVocabulary builds the vocabulary from items and vectorizes them
// against it, plus any extra label maps (such as a query's) that should
// contribute dimensions.
func BuildWithVocabulary(mem memory.Allocator, items []Item, extra ...vocab.LabelMap) (*Corpus, error) {
	maps := make([]vocab.LabelMap, 0, len(items)+len(extra))
	for _, item := range items {
		maps = append(maps, item.Labels)
	}
	maps = append(maps, extra...)
	return Build(mem, vocab.Build(maps...), items)
}

// FromVectors builds a corpus from already dense vectors. The dimensionality
// is taken from the first vector; every other vector must match it.
func FromVectors(mem memory.Allocator, ids []string, vectors [][]float64) (*Corpus, error) {
	const op = "corpus.FromVectors"
	if len(ids) != len(vectors) {
		return nil, errors.NewDimensionMismatch(op, len(ids), len(vectors)).
			WithContext("reason", "ids and vectors differ in count")
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	return newCorpus(mem, nil, dim, ids, vectors)
}

func newCorpus(mem memory.Allocator, v *vocab.Vocabulary, dim int, ids []string, vectors [][]float64) (*Corpus, error) {
	const op = "corpus.Build"

	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := index[id]; dup {
			return nil, errors.NewDuplicateItem(op, id)
		}
		if len(vectors[i]) != dim {
			return nil, errors.NewDimensionMismatch(op, dim, len(vectors[i])).WithContext("item", id)
		}
		index[id] = i
	}

	record := buildRecord(mem, dim, ids, vectors)

	id := uuid.New()
	c := &Corpus{
		id:          id,
		fingerprint: xxhash.Sum64(id[:]),
		vocabulary:  v,
		dim:         dim,
		ids:         append([]string(nil), ids...),
		index:       index,
		vectors:     viewVectors(record, dim, len(ids)),
		record:      record,
	}
	metrics.CorpusItems.Set(float64(len(ids)))
	return c, nil
}

// schema returns the record layout. Arrow fixed size lists need a positive
// size, so a zero-dimensional corpus carries ids only.
func schema(dim int) *arrow.Schema {
	fields := []arrow.Field{{Name: idField, Type: arrow.BinaryTypes.String}}
	if dim > 0 {
		fields = append(fields, arrow.Field{
			Name: embeddingField,
			Type: arrow.FixedSizeListOf(int32(dim), arrow.PrimitiveTypes.Float64),
		})
	}
	return arrow.NewSchema(fields, nil)
}

func buildRecord(mem memory.Allocator, dim int, ids []string, vectors [][]float64) arrow.Record {
	b := array.NewRecordBuilder(mem, schema(dim))
	defer b.Release()

	idBuilder := b.Field(0).(*array.StringBuilder)
	idBuilder.AppendValues(ids, nil)

	if dim > 0 {
		listBuilder := b.Field(1).(*array.FixedSizeListBuilder)
		valueBuilder := listBuilder.ValueBuilder().(*array.Float64Builder)
		valueBuilder.Reserve(dim * len(vectors))
		for _, vec := range vectors {
			listBuilder.Append(true)
			valueBuilder.AppendValues(vec, nil)
		}
	}

	return b.NewRecord()
}

func viewVectors(record arrow.Record, dim, n int) [][]float64 {
	out := make([][]float64, n)
	if dim == 0 {
		for i := range out {
			out[i] = []float64{}
		}
		return out
	}

	values := record.Column(1).(*array.FixedSizeList).ListValues().(*array.Float64).Float64Values()
	for i := range out {
		start := i * dim
		out[i] = values[start : start+dim : start+dim]
	}
	return out
}

// ID identifies this corpus instance.
func (c *Corpus) ID() uuid.UUID { return c.id }

// Fingerprint is a 64-bit key derived from ID, suitable for caches of data
// computed from the corpus vectors.
func (c *Corpus) Fingerprint() uint64 { return c.fingerprint }

// Vocabulary returns the vocabulary the corpus was vectorized against, or nil
// for corpora built with FromVectors.
func (c *Corpus) Vocabulary() *vocab.Vocabulary { return c.vocabulary }

// Dim returns the length of every vector in the corpus.
func (c *Corpus) Dim() int { return c.dim }

// Len returns the number of items.
func (c *Corpus) Len() int { return len(c.ids) }

// ItemID returns the id of the i-th item in insertion order.
func (c *Corpus) ItemID(i int) string { return c.ids[i] }

// Vector returns the i-th vector. The slice aliases the Arrow record and must
// not be modified or used after Release.
func (c *Corpus) Vector(i int) []float64 { return c.vectors[i] }

// Lookup returns the vector for an item id.
func (c *Corpus) Lookup(id string) ([]float64, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.vectors[i], true
}

// Vectors returns all vectors in insertion order. The inner slices alias the
// Arrow record.
func (c *Corpus) Vectors() [][]float64 {
	return append([][]float64(nil), c.vectors...)
}

// Record exposes the backing Arrow record. The corpus keeps ownership; call
// Retain to hold it beyond the corpus lifetime.
func (c *Corpus) Record() arrow.Record { return c.record }

// Release frees the Arrow record backing the vectors.
func (c *Corpus) Release() {
	if c.record != nil {
		c.record.Release()
		c.record = nil
	}
}
