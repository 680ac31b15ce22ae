// Package traversal selects the set of target documents a path expression
// refers to within a batch of document trees. The syntax follows the
// convention "@r" for the root documents and one trailing 'c' per chunk
// level below the roots ("@c" for chunks, "@cc" for chunks of chunks).
package traversal

import (
	"strings"

	internalErrors "github.com/gosearchlabs/go-chunk-ranker/internal/errors"
	"github.com/gosearchlabs/go-chunk-ranker/model"
)

// Select returns the documents the path expression yields from the given
// batch. The returned slice shares the batch's document pointers: mutating a
// selected document mutates the tree.
func Select(docs []*model.Document, paths string) ([]*model.Document, error) {
	depth, err := parse(paths)
	if err != nil {
		return nil, err
	}

	selected := docs
	for level := 0; level < depth; level++ {
		var next []*model.Document
		for _, doc := range selected {
			next = append(next, doc.Chunks...)
		}
		selected = next
	}
	return selected, nil
}

// parse translates a path expression into a chunk depth below the roots:
// "@r" is 0, "@c" is 1, "@cc" is 2, and so on.
func parse(paths string) (int, error) {
	if paths == "@r" {
		return 0, nil
	}
	if len(paths) >= 2 && paths[0] == '@' && strings.Count(paths[1:], "c") == len(paths)-1 {
		return len(paths) - 1, nil
	}
	return 0, internalErrors.NewInvalidConfigurationError("traversal_paths",
		"unrecognized path expression '"+paths+"' (expected '@r', '@c', '@cc', ...)")
}
