package topics

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/muesli/clusters"
)

// vectorizer turns document texts into L2-normalized TF-IDF coordinate
// vectors over a shared vocabulary.
type vectorizer struct {
	terms []string       // vocabulary, sorted for deterministic indices
	index map[string]int // term -> coordinate position
}

// tokenize lowercases text and splits it into terms, dropping stopwords
// and single-character fragments.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var terms []string
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// newVectorizer builds the vocabulary from the tokenized corpus.
func newVectorizer(tokenized [][]string) *vectorizer {
	seen := map[string]bool{}
	for _, terms := range tokenized {
		for _, term := range terms {
			seen[term] = true
		}
	}

	v := &vectorizer{
		terms: make([]string, 0, len(seen)),
		index: make(map[string]int, len(seen)),
	}
	for term := range seen {
		v.terms = append(v.terms, term)
	}
	sort.Strings(v.terms)
	for i, term := range v.terms {
		v.index[term] = i
	}
	return v
}

// transform computes one TF-IDF vector per document. Term frequency is
// scaled down by corpus-wide document frequency, then each vector is
// L2-normalized so squared Euclidean distance orders like cosine distance.
func (v *vectorizer) transform(tokenized [][]string) []clusters.Coordinates {
	docCount := float64(len(tokenized))

	df := make([]float64, len(v.terms))
	for _, terms := range tokenized {
		inDoc := map[int]bool{}
		for _, term := range terms {
			inDoc[v.index[term]] = true
		}
		for i := range inDoc {
			df[i]++
		}
	}

	vectors := make([]clusters.Coordinates, len(tokenized))
	for d, terms := range tokenized {
		coords := make(clusters.Coordinates, len(v.terms))
		if len(terms) > 0 {
			for _, term := range terms {
				coords[v.index[term]] += 1 / float64(len(terms))
			}
			var norm float64
			for i := range coords {
				if coords[i] > 0 {
					coords[i] *= 1 + math.Log(docCount/(1+df[i]))
					norm += coords[i] * coords[i]
				}
			}
			if norm > 0 {
				norm = math.Sqrt(norm)
				for i := range coords {
					coords[i] /= norm
				}
			}
		}
		vectors[d] = coords
	}
	return vectors
}
