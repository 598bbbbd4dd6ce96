// Package topics implements topic discovery: TF-IDF vectorization,
// seeded k-means partitioning, keyword ranking, and emotion aggregation.
package topics

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pulselab/brandtune/internal/emotion"
)

// ErrInsufficientData is returned when no usable documents exist. It is
// fatal for the whole run.
var ErrInsufficientData = errors.New("no usable documents in corpus")

// Topic is one discovered discussion cluster. IDs run 0..n-1 in rank
// order (largest membership first). Topics are frozen once Discover
// returns them.
type Topic struct {
	ID          int
	Name        string
	Description string
	Keywords    []string
	DocIDs      []string
	Examples    []string
	Size        int
	Emotion     emotion.Vector
}

// titleCase uppercases the first letter of each keyword for display names.
func titleCase(words []string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		parts[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(parts, " ")
}

// describe builds the report-facing narrative sentence for a topic, with
// the tone keyed to its aggregate polarity.
func describe(t Topic) string {
	tone := "mixed; the community is debating"
	switch {
	case t.Emotion.Polarity < -0.15:
		tone = "concerning; users are consistently complaining about"
	case t.Emotion.Polarity > 0.15:
		tone = "great; customers are thrilled with"
	}

	desc := fmt.Sprintf("Sentiment here is %s %s. It has been mentioned %d times in recent posts.",
		tone, t.Name, t.Size)
	if len(t.Keywords) > 0 {
		kws := t.Keywords
		if len(kws) > 4 {
			kws = kws[:4]
		}
		desc += fmt.Sprintf(" The discussion centers on terms like %s.", strings.Join(kws, ", "))
	}
	return desc
}
