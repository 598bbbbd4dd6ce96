package solutions

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pulselab/brandtune/internal/emotion"
	"github.com/pulselab/brandtune/internal/topics"
)

func TestProposeAlwaysFourSteps(t *testing.T) {
	syn, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	tests := []struct {
		name     string
		keywords []string
		polarity float64
	}{
		{name: "no keywords", keywords: nil, polarity: -0.5},
		{name: "one keyword", keywords: []string{"billing"}, polarity: -0.5},
		{name: "two keywords", keywords: []string{"billing", "refund"}, polarity: 0.8},
		{name: "many keywords", keywords: []string{"a1", "b2", "c3", "d4", "e5", "f6"}, polarity: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic := topics.Topic{
				Keywords: tt.keywords,
				Emotion:  emotion.Vector{Polarity: tt.polarity},
			}
			steps := syn.Propose(topic)
			if len(steps) != StepCount {
				t.Fatalf("Propose() returned %d steps, want %d", len(steps), StepCount)
			}
			for i, step := range steps {
				if step == "" {
					t.Errorf("step %d is empty", i)
				}
				if strings.Contains(step, "{keyword}") {
					t.Errorf("step %d has unfilled placeholder: %q", i, step)
				}
			}
		})
	}
}

func TestProposeSingleKeywordRepeats(t *testing.T) {
	syn, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	topic := topics.Topic{
		Keywords: []string{"outage"},
		Emotion:  emotion.Vector{Polarity: -0.9},
	}
	for i, step := range syn.Propose(topic) {
		if !strings.Contains(step, "outage") {
			t.Errorf("step %d does not reuse the only keyword: %q", i, step)
		}
	}
}

func TestProposeFamilyByPolarity(t *testing.T) {
	tests := []struct {
		polarity float64
		want     string
	}{
		{-0.8, "negative"},
		{-0.16, "negative"},
		{-0.1, "neutral"},
		{0, "neutral"},
		{0.15, "neutral"},
		{0.2, "positive"},
		{0.9, "positive"},
	}
	for _, tt := range tests {
		if got := familyFor(tt.polarity); got != tt.want {
			t.Errorf("familyFor(%v) = %q, want %q", tt.polarity, got, tt.want)
		}
	}
}

func TestProposeDeterministic(t *testing.T) {
	syn, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	topic := topics.Topic{
		Keywords: []string{"coverage", "tower", "signal"},
		Emotion:  emotion.Vector{Polarity: -0.7, Arousal: 0.8},
	}
	first := syn.Propose(topic)
	for i := 0; i < 3; i++ {
		if got := syn.Propose(topic); !reflect.DeepEqual(got, first) {
			t.Fatalf("Propose not deterministic: %v != %v", got, first)
		}
	}
}
