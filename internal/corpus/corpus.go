// Package corpus loads the document corpus produced by the upstream
// collector and sentiment classifier.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pulselab/brandtune/internal/emotion"
)

// Document is a single social-media post with its precomputed emotion.
// Documents are read-only to the pipeline.
type Document struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Emotion emotion.Vector `json:"emotion"`
}

// Usable reports whether the document carries any clusterable text.
func (d Document) Usable() bool {
	return strings.TrimSpace(d.Text) != ""
}

// Load reads a JSON array of documents from path. Documents without an ID
// get one derived from their position, so downstream tie-breaking stays
// well defined and identical across reruns on the same input.
func Load(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", path, err)
	}

	for i := range docs {
		if docs[i].ID == "" {
			docs[i].ID = fmt.Sprintf("doc-%04d", i)
		}
		docs[i].Emotion = docs[i].Emotion.Clamped()
	}
	return docs, nil
}
