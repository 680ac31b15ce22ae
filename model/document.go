// Package model defines the document tree that flows through the ranking
// pipeline: documents carry chunks (child documents), candidate matches, and
// named scalar scores.
package model

// NamedScore is a scalar score stored under a string key (e.g. "cosine").
// OpName records which operation produced the value, if any.
type NamedScore struct {
	Value  float64 `json:"value"`
	OpName string  `json:"op_name,omitempty"`
}

// Document is a node in a document tree. A document at granularity 0 is a
// root; its Chunks are child documents one granularity level deeper. Matches
// holds candidate result documents attached during retrieval, each carrying
// at least one named score.
type Document struct {
	ID          string                 `json:"id"`
	ParentID    string                 `json:"parent_id,omitempty"`
	Granularity int                    `json:"granularity"`
	Chunks      []*Document            `json:"chunks,omitempty"`
	Matches     []*Document            `json:"matches,omitempty"`
	Scores      map[string]NamedScore  `json:"scores,omitempty"`
	Tags        map[string]interface{} `json:"tags,omitempty"`
}

// SourceKey returns the identity used to group matches that represent the
// same underlying parent document: ParentID when set, otherwise ID.
func (d *Document) SourceKey() string {
	if d.ParentID != "" {
		return d.ParentID
	}
	return d.ID
}

// Score returns the named score for the given metric.
func (d *Document) Score(metric string) (NamedScore, bool) {
	score, ok := d.Scores[metric]
	return score, ok
}

// SetScore stores a named score under the given metric key, initializing the
// score map if needed.
func (d *Document) SetScore(metric string, score NamedScore) {
	if d.Scores == nil {
		d.Scores = make(map[string]NamedScore)
	}
	d.Scores[metric] = score
}

// Copy returns a deep copy of the document. Mutating the copy's identity
// fields, scores, tags, chunks, or matches never touches the original.
func (d *Document) Copy() *Document {
	if d == nil {
		return nil
	}

	copied := &Document{
		ID:          d.ID,
		ParentID:    d.ParentID,
		Granularity: d.Granularity,
	}

	if d.Scores != nil {
		copied.Scores = make(map[string]NamedScore, len(d.Scores))
		for name, score := range d.Scores {
			copied.Scores[name] = score
		}
	}

	if d.Tags != nil {
		copied.Tags = make(map[string]interface{}, len(d.Tags))
		for key, value := range d.Tags {
			copied.Tags[key] = copyTagValue(value)
		}
	}

	if d.Chunks != nil {
		copied.Chunks = make([]*Document, len(d.Chunks))
		for i, chunk := range d.Chunks {
			copied.Chunks[i] = chunk.Copy()
		}
	}

	if d.Matches != nil {
		copied.Matches = make([]*Document, len(d.Matches))
		for i, match := range d.Matches {
			copied.Matches[i] = match.Copy()
		}
	}

	return copied
}

// copyTagValue deep-copies the JSON-shaped values that appear in Tags.
// Scalars are returned as-is.
func copyTagValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		copied := make(map[string]interface{}, len(v))
		for key, item := range v {
			copied[key] = copyTagValue(item)
		}
		return copied
	case []interface{}:
		copied := make([]interface{}, len(v))
		for i, item := range v {
			copied[i] = copyTagValue(item)
		}
		return copied
	default:
		return v
	}
}
