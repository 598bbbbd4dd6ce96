package topics

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/muesli/clusters"

	"github.com/pulselab/brandtune/internal/corpus"
	"github.com/pulselab/brandtune/internal/emotion"
)

// Config controls topic discovery. Seed makes clustering reproducible:
// identical corpus, k, and seed always produce identical assignments.
type Config struct {
	Seed             int64
	MaxIterations    int
	KeywordsPerTopic int
	ExamplesPerTopic int
}

// DefaultConfig returns the recommended discovery configuration.
func DefaultConfig() Config {
	return Config{
		Seed:             42,
		MaxIterations:    100,
		KeywordsPerTopic: 10,
		ExamplesPerTopic: 10,
	}
}

// Engine clusters documents into topics.
type Engine struct {
	cfg Config
}

// NewEngine creates a discovery engine. Zero config fields fall back to
// the defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.KeywordsPerTopic <= 0 {
		cfg.KeywordsPerTopic = def.KeywordsPerTopic
	}
	if cfg.ExamplesPerTopic <= 0 {
		cfg.ExamplesPerTopic = def.ExamplesPerTopic
	}
	return &Engine{cfg: cfg}
}

// docObservation wraps a document vector to implement clusters.Observation.
type docObservation struct {
	doc    corpus.Document
	coords clusters.Coordinates
}

func (o docObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o docObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Discover partitions the documents into at most k topics. Duplicate
// documents (same normalized text) collapse before clustering, and the
// effective cluster count never exceeds the number of distinct documents.
// Every input document is assigned to exactly one returned topic. Returns
// ErrInsufficientData when no document carries usable text.
func (e *Engine) Discover(docs []corpus.Document, k int) ([]Topic, error) {
	unique, aliases := dedupe(docs)
	if len(unique) == 0 {
		return nil, ErrInsufficientData
	}

	if k > len(unique) {
		k = len(unique)
	}
	if k < 1 {
		k = 1
	}

	tokenized := make([][]string, len(unique))
	for i, d := range unique {
		tokenized[i] = tokenize(d.Text)
	}
	vec := newVectorizer(tokenized)
	vectors := vec.transform(tokenized)

	observations := make([]docObservation, len(unique))
	for i, d := range unique {
		observations[i] = docObservation{doc: d, coords: vectors[i]}
	}

	assignments := e.partition(observations, k)

	// Group member indices per provisional cluster, dropping empties.
	members := make(map[int][]int)
	for docIdx, c := range assignments {
		members[c] = append(members[c], docIdx)
	}
	provisional := make([]int, 0, len(members))
	for c := range members {
		provisional = append(provisional, c)
	}
	// Rank: descending member count, ties by ascending cluster index.
	sort.Slice(provisional, func(i, j int) bool {
		a, b := provisional[i], provisional[j]
		if len(members[a]) != len(members[b]) {
			return len(members[a]) > len(members[b])
		}
		return a < b
	})

	result := make([]Topic, 0, len(provisional))
	for rank, c := range provisional {
		idxs := members[c]
		t := Topic{
			ID:       rank,
			Keywords: e.rankKeywords(vec, observations, idxs),
			Emotion:  aggregateEmotion(observations, idxs, aliases),
		}

		for _, i := range idxs {
			d := observations[i].doc
			t.DocIDs = append(t.DocIDs, d.ID)
			for _, dup := range aliases[i] {
				t.DocIDs = append(t.DocIDs, dup.ID)
			}
			if len(t.Examples) < e.cfg.ExamplesPerTopic {
				t.Examples = append(t.Examples, d.Text)
			}
		}
		t.Size = len(t.DocIDs)

		nameWords := t.Keywords
		if len(nameWords) > 3 {
			nameWords = nameWords[:3]
		}
		t.Name = titleCase(nameWords)
		t.Description = describe(t)

		result = append(result, t)
	}
	return result, nil
}

// partition runs seeded k-means over the observations and returns one
// cluster index per observation.
func (e *Engine) partition(observations []docObservation, k int) []int {
	rng := rand.New(rand.NewSource(e.cfg.Seed))

	// Initial centroids: k distinct documents chosen by a seeded
	// permutation, so a fixed seed fixes the whole run.
	perm := rng.Perm(len(observations))
	centers := make([]clusters.Coordinates, k)
	for i := 0; i < k; i++ {
		src := observations[perm[i]].coords
		centers[i] = append(clusters.Coordinates{}, src...)
	}

	assignments := make([]int, len(observations))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < e.cfg.MaxIterations; iter++ {
		changed := false
		for i, obs := range observations {
			best := nearest(obs, centers)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		// Recompute centroids as member means. A cluster that lost all
		// members keeps its previous centroid.
		dim := len(centers[0])
		sums := make([]clusters.Coordinates, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make(clusters.Coordinates, dim)
		}
		for i, obs := range observations {
			c := assignments[i]
			counts[c]++
			for j, v := range obs.coords {
				sums[c][j] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				sums[c][j] /= float64(counts[c])
			}
			centers[c] = sums[c]
		}
	}
	return assignments
}

// nearest returns the index of the closest centroid. Strict comparison
// means distance ties resolve to the lowest cluster index.
func nearest(obs clusters.Observation, centers []clusters.Coordinates) int {
	best := 0
	bestDist := obs.Distance(centers[0])
	for c := 1; c < len(centers); c++ {
		if d := obs.Distance(centers[c]); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// rankKeywords orders vocabulary terms by their aggregate weight across
// the cluster's member vectors.
func (e *Engine) rankKeywords(vec *vectorizer, observations []docObservation, idxs []int) []string {
	weights := make([]float64, len(vec.terms))
	for _, i := range idxs {
		for j, w := range observations[i].coords {
			weights[j] += w
		}
	}

	order := make([]int, len(vec.terms))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if weights[order[a]] != weights[order[b]] {
			return weights[order[a]] > weights[order[b]]
		}
		return order[a] < order[b] // alphabetical, vocab is sorted
	})

	var keywords []string
	for _, i := range order {
		if weights[i] <= 0 || len(keywords) >= e.cfg.KeywordsPerTopic {
			break
		}
		keywords = append(keywords, vec.terms[i])
	}
	return keywords
}

// aggregateEmotion averages the continuous axes over every member
// document, folded duplicates included, and picks the majority label,
// breaking ties with the lowest document ID.
func aggregateEmotion(observations []docObservation, idxs []int, aliases [][]corpus.Document) emotion.Vector {
	var agg emotion.Vector
	labelCounts := map[string]int{}
	labelFirstID := map[string]string{}
	members := 0

	tally := func(id string, v emotion.Vector) {
		members++
		agg.Polarity += v.Polarity
		agg.Arousal += v.Arousal
		agg.Confidence += v.Confidence
		if v.Label != "" {
			labelCounts[v.Label]++
			if prev, ok := labelFirstID[v.Label]; !ok || id < prev {
				labelFirstID[v.Label] = id
			}
		}
	}

	for _, i := range idxs {
		tally(observations[i].doc.ID, observations[i].doc.Emotion)
		for _, dup := range aliases[i] {
			tally(dup.ID, dup.Emotion)
		}
	}

	n := float64(members)
	agg.Polarity /= n
	agg.Arousal /= n
	agg.Confidence /= n

	bestCount := 0
	for label, count := range labelCounts {
		switch {
		case count > bestCount:
			agg.Label, bestCount = label, count
		case count == bestCount && labelFirstID[label] < labelFirstID[agg.Label]:
			agg.Label = label
		}
	}
	return agg.Clamped()
}

// dedupe collapses documents with identical normalized text. It returns
// the unique documents in input order plus, per unique document, the
// duplicates folded into it (kept whole so their IDs and emotions still
// count toward the topic).
func dedupe(docs []corpus.Document) ([]corpus.Document, [][]corpus.Document) {
	var unique []corpus.Document
	var aliases [][]corpus.Document
	seen := map[string]int{}

	for _, d := range docs {
		if !d.Usable() {
			continue
		}
		key := strings.Join(strings.Fields(strings.ToLower(d.Text)), " ")
		if i, ok := seen[key]; ok {
			aliases[i] = append(aliases[i], d)
			continue
		}
		seen[key] = len(unique)
		unique = append(unique, d)
		aliases = append(aliases, nil)
	}
	return unique, aliases
}
