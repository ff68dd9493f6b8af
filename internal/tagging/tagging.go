// Package tagging is the boundary to whatever produces label-confidence maps
// for images. Nothing here analyses images; sources only hand back tags that
// were extracted elsewhere.
package tagging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/23skdu/tagmatch/internal/corpus"
	"github.com/23skdu/tagmatch/internal/errors"
	"github.com/23skdu/tagmatch/internal/vocab"
	"golang.org/x/sync/errgroup"
)

// Extractor returns the tags for one item.
type Extractor interface {
	ExtractTags(ctx context.Context, itemID string) (vocab.LabelMap, error)
}

// Static serves tags from memory.
type Static map[string]vocab.LabelMap

// ExtractTags implements Extractor.
func (s Static) ExtractTags(ctx context.Context, itemID string) (vocab.LabelMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labels, ok := s[itemID]
	if !ok {
		return nil, errors.NewUnknownItem("tagging.Static", itemID)
	}
	return labels, nil
}

// NewStatic indexes items by id.
func NewStatic(items []corpus.Item) Static {
	s := make(Static, len(items))
	for _, item := range items {
		s[item.ID] = item.Labels
	}
	return s
}

// ExtractAll asks ex for the tags of every id, at most workers at a time, and
// returns items in the order of ids. The first error cancels the rest.
func ExtractAll(ctx context.Context, ex Extractor, ids []string, workers int) ([]corpus.Item, error) {
	items := make([]corpus.Item, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, id := range ids {
		g.Go(func() error {
			labels, err := ex.ExtractTags(gCtx, id)
			if err != nil {
				return fmt.Errorf("extract tags for %q: %w", id, err)
			}
			if err := vocab.Validate(labels); err != nil {
				return fmt.Errorf("extract tags for %q: %w", id, err)
			}
			items[i] = corpus.Item{ID: id, Labels: labels}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

type document struct {
	Items []corpus.Item `json:"items"`
}

// LoadFile reads items from a JSON document of the form
//
//	{"items": [{"id": "img1", "tags": {"cat": 0.9, "dog": 0.1}}]}
//
// Item order is preserved. Missing tags are treated as an empty map.
func LoadFile(path string) ([]corpus.Item, error) {
	const op = "tagging.LoadFile"

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInputError(err, op, "read failed").WithContext("path", path)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WrapInputError(err, op, "decode failed").WithContext("path", path)
	}

	seen := make(map[string]struct{}, len(doc.Items))
	for i := range doc.Items {
		item := &doc.Items[i]
		if item.ID == "" {
			return nil, errors.WrapInputError(errors.ErrInvalidLabel, op,
				fmt.Sprintf("item %d has no id", i)).WithContext("path", path)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, errors.NewDuplicateItem(op, item.ID).WithContext("path", path)
		}
		seen[item.ID] = struct{}{}
		if item.Labels == nil {
			item.Labels = vocab.LabelMap{}
		}
		if err := vocab.Validate(item.Labels); err != nil {
			return nil, errors.WrapInputError(err, op, "invalid tags").WithContext("item", item.ID)
		}
	}
	return doc.Items, nil
}

// IDs returns the ids of items in order.
func IDs(items []corpus.Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
