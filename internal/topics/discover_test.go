package topics

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/pulselab/brandtune/internal/corpus"
	"github.com/pulselab/brandtune/internal/emotion"
)

func doc(id, text string, polarity, arousal float64, label string) corpus.Document {
	return corpus.Document{
		ID:   id,
		Text: text,
		Emotion: emotion.Vector{
			Polarity: polarity,
			Arousal:  arousal,
			Label:    label,
		},
	}
}

// billingDocs and outageDocs form two clearly separated vocabularies.
func billingDocs(n int) []corpus.Document {
	docs := make([]corpus.Document, n)
	for i := range docs {
		docs[i] = doc(
			fmt.Sprintf("bill-%d", i),
			fmt.Sprintf("billing statement overcharge refund invoice number %d wrong amount", i),
			-0.6, 0.7, "angry",
		)
	}
	return docs
}

func outageDocs(n int) []corpus.Document {
	docs := make([]corpus.Document, n)
	for i := range docs {
		docs[i] = doc(
			fmt.Sprintf("out-%d", i),
			fmt.Sprintf("signal outage dropped coverage tower down area %d disconnect", i),
			-0.8, 0.9, "angry",
		)
	}
	return docs
}

func TestDiscoverEdgeCases(t *testing.T) {
	tests := []struct {
		name       string
		docs       []corpus.Document
		k          int
		wantTopics int
		wantErr    error
	}{
		{
			name:    "empty corpus",
			docs:    nil,
			k:       5,
			wantErr: ErrInsufficientData,
		},
		{
			name: "whitespace only documents",
			docs: []corpus.Document{
				doc("1", "   ", 0, 0, ""),
				doc("2", "\n\t", 0, 0, ""),
			},
			k:       3,
			wantErr: ErrInsufficientData,
		},
		{
			name: "three documents with k five yields three topics",
			docs: []corpus.Document{
				doc("1", "billing overcharge refund", -0.5, 0.6, "angry"),
				doc("2", "coverage outage tower", -0.7, 0.8, "angry"),
				doc("3", "rewards discount coffee", 0.8, 0.5, "happy"),
			},
			k:          5,
			wantTopics: 3,
		},
		{
			name: "duplicates collapse before counting",
			docs: []corpus.Document{
				doc("1", "billing overcharge refund", -0.5, 0.6, "angry"),
				doc("2", "Billing  overcharge REFUND", -0.5, 0.6, "angry"),
				doc("3", "coverage outage tower", -0.7, 0.8, "angry"),
			},
			k:          5,
			wantTopics: 2,
		},
		{
			name:       "k smaller than corpus",
			docs:       append(billingDocs(6), outageDocs(6)...),
			k:          2,
			wantTopics: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEngine(DefaultConfig()).Discover(tt.docs, tt.k)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("Discover() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Discover() unexpected error: %v", err)
			}
			if len(got) != tt.wantTopics {
				t.Fatalf("Discover() returned %d topics, want %d", len(got), tt.wantTopics)
			}
		})
	}
}

func TestDiscoverEveryDocumentAssignedOnce(t *testing.T) {
	docs := append(billingDocs(8), outageDocs(5)...)
	topicsList, err := NewEngine(DefaultConfig()).Discover(docs, 3)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	assigned := map[string]int{}
	for _, topic := range topicsList {
		for _, id := range topic.DocIDs {
			assigned[id]++
		}
	}

	if len(assigned) != len(docs) {
		t.Errorf("assigned %d distinct documents, want %d", len(assigned), len(docs))
	}
	for id, n := range assigned {
		if n != 1 {
			t.Errorf("document %s assigned to %d topics, want exactly 1", id, n)
		}
	}
}

func TestDiscoverOrderedBySizeThenID(t *testing.T) {
	docs := append(billingDocs(4), outageDocs(9)...)
	topicsList, err := NewEngine(DefaultConfig()).Discover(docs, 2)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	for i, topic := range topicsList {
		if topic.ID != i {
			t.Errorf("topic at rank %d has ID %d", i, topic.ID)
		}
		if i > 0 && topic.Size > topicsList[i-1].Size {
			t.Errorf("topic %d (size %d) larger than preceding topic (size %d)",
				i, topic.Size, topicsList[i-1].Size)
		}
	}
}

func TestDiscoverDeterministic(t *testing.T) {
	docs := append(billingDocs(7), outageDocs(7)...)
	cfg := DefaultConfig()
	cfg.Seed = 7

	first, err := NewEngine(cfg).Discover(docs, 3)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := NewEngine(cfg).Discover(docs, 3)
		if err != nil {
			t.Fatalf("Discover() error on rerun: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run with identical seed and input", i+2)
		}
	}
}

func TestDiscoverKeywordsAndEmotion(t *testing.T) {
	docs := append(billingDocs(10), outageDocs(4)...)
	topicsList, err := NewEngine(DefaultConfig()).Discover(docs, 2)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	// Largest topic first: the billing cluster.
	top := topicsList[0]
	if top.Size != 10 {
		t.Fatalf("top topic size = %d, want 10", top.Size)
	}
	found := false
	for _, kw := range top.Keywords {
		if kw == "billing" || kw == "overcharge" {
			found = true
		}
	}
	if !found {
		t.Errorf("billing cluster keywords %v missing billing terms", top.Keywords)
	}
	if top.Emotion.Label != "angry" {
		t.Errorf("aggregated label = %q, want %q", top.Emotion.Label, "angry")
	}
	if top.Emotion.Polarity >= 0 {
		t.Errorf("aggregated polarity = %v, want negative", top.Emotion.Polarity)
	}
	if top.Name == "" {
		t.Error("topic name is empty")
	}
}

func TestAggregateEmotionLabelTieLowestDocID(t *testing.T) {
	obs := []docObservation{
		{doc: doc("b", "x", 0.5, 0.5, "happy")},
		{doc: doc("a", "y", -0.5, 0.5, "angry")},
		{doc: doc("c", "z", 0.5, 0.5, "happy")},
		{doc: doc("d", "w", -0.5, 0.5, "angry")},
	}
	got := aggregateEmotion(obs, []int{0, 1, 2, 3}, make([][]corpus.Document, len(obs)))
	if got.Label != "angry" {
		t.Errorf("tie broken to %q, want %q (lowest document ID)", got.Label, "angry")
	}
}

func TestAggregateEmotionCountsDuplicates(t *testing.T) {
	// The two folded duplicates carry milder emotions; a mean over unique
	// documents only would stay at -0.9.
	docs := []corpus.Document{
		doc("1", "billing overcharge refund", -0.9, 0.8, "angry"),
		doc("2", "billing  OVERCHARGE refund", -0.3, 0.8, "angry"),
		doc("3", "Billing overcharge refund", -0.3, 0.8, "angry"),
		doc("4", "rewards discount coffee", 0.9, 0.4, "happy"),
	}
	topicsList, err := NewEngine(DefaultConfig()).Discover(docs, 2)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	top := topicsList[0]
	if top.Size != 3 {
		t.Fatalf("billing topic size = %d, want 3 (duplicates folded in)", top.Size)
	}
	if math.Abs(top.Emotion.Polarity-(-0.5)) > 1e-9 {
		t.Errorf("billing polarity = %v, want -0.5 averaged over all three members", top.Emotion.Polarity)
	}
	if top.Emotion.Label != "angry" {
		t.Errorf("billing label = %q, want angry", top.Emotion.Label)
	}
}

func TestDescribeByPolarityFamily(t *testing.T) {
	tests := []struct {
		name     string
		polarity float64
		want     string
	}{
		{"negative", -0.6, "complaining"},
		{"positive", 0.6, "thrilled"},
		{"neutral", 0.0, "debating"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic := Topic{
				Name:     "Billing Overcharge",
				Keywords: []string{"billing", "overcharge", "refund", "invoice", "amount"},
				Size:     7,
				Emotion:  emotion.Vector{Polarity: tt.polarity},
			}
			got := describe(topic)
			if !strings.Contains(got, tt.want) {
				t.Errorf("describe() = %q, missing %q", got, tt.want)
			}
			if !strings.Contains(got, "Billing Overcharge") || !strings.Contains(got, "7 times") {
				t.Errorf("describe() = %q, missing topic name or mention count", got)
			}
			if !strings.Contains(got, "billing, overcharge, refund, invoice") {
				t.Errorf("describe() = %q, missing top-4 keyword list", got)
			}
		})
	}
}

func TestDiscoverSetsDescription(t *testing.T) {
	topicsList, err := NewEngine(DefaultConfig()).Discover(billingDocs(5), 1)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if topicsList[0].Description == "" {
		t.Error("discovered topic has no description")
	}
	if !strings.Contains(topicsList[0].Description, "complaining") {
		t.Errorf("negative topic description = %q, wrong tone", topicsList[0].Description)
	}
}

func TestTitleCaseMultibyte(t *testing.T) {
	got := titleCase([]string{"überholt", "café"})
	if got != "Überholt Café" {
		t.Errorf("titleCase() = %q, want %q", got, "Überholt Café")
	}
}

func TestTokenizeDropsStopwordsAndShortTerms(t *testing.T) {
	got := tokenize("The 5g Signal is REALLY bad, I think!")
	want := []string{"5g", "signal", "bad"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenize() = %v, want %v", got, want)
	}
}
