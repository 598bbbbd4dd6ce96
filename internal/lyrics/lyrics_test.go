package lyrics

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pulselab/brandtune/internal/emotion"
	"github.com/pulselab/brandtune/internal/topics"
)

func sampleTopic() topics.Topic {
	return topics.Topic{
		ID:       0,
		Name:     "Billing Overcharge Refund",
		Keywords: []string{"billing", "overcharge", "refund"},
		Examples: []string{
			"My bill is wrong again this month",
			"I was overcharged fifty dollars",
		},
		Size:    12,
		Emotion: emotion.Vector{Polarity: -0.6, Arousal: 0.7, Label: "angry"},
	}
}

func sampleSteps() []string {
	return []string{
		"Acknowledge the billing complaints publicly",
		"Route billing reports to an escalation queue",
		"Publish a workaround guide",
		"Follow up with affected customers",
	}
}

func TestComposeWithinWordBudget(t *testing.T) {
	for _, target := range []time.Duration{15 * time.Second, 30 * time.Second, 60 * time.Second} {
		c := NewComposer(target)
		lyric := c.Compose(sampleTopic(), sampleSteps())

		budget := int(target.Seconds() * DefaultWordsPerSecond)
		words := len(strings.Fields(lyric))
		if words == 0 {
			t.Fatalf("target %v: empty lyric", target)
		}
		if words > budget {
			t.Errorf("target %v: %d words exceeds budget %d", target, words, budget)
		}
	}
}

func TestComposeDeterministic(t *testing.T) {
	c := NewComposer(30 * time.Second)
	first := c.Compose(sampleTopic(), sampleSteps())
	for i := 0; i < 3; i++ {
		if got := c.Compose(sampleTopic(), sampleSteps()); got != first {
			t.Fatal("Compose not deterministic for identical input")
		}
	}
}

func TestComposeMentionsTopicAndSolution(t *testing.T) {
	c := NewComposer(30 * time.Second)
	lyric := c.Compose(sampleTopic(), sampleSteps())

	if !strings.Contains(lyric, "Billing Overcharge Refund") {
		t.Error("lyric does not mention the topic name")
	}
	if !strings.Contains(lyric, "Step one") {
		t.Error("negative topic lyric does not introduce the first solution step")
	}
}

func TestComposePositiveTone(t *testing.T) {
	topic := sampleTopic()
	topic.Emotion = emotion.Vector{Polarity: 0.8, Arousal: 0.5, Label: "happy"}

	lyric := NewComposer(30 * time.Second).Compose(topic, sampleSteps())
	if !strings.Contains(lyric, "loving") {
		t.Errorf("positive lyric missing positive verse: %q", lyric)
	}
}

func TestComposeQuoteKeepsRunesIntact(t *testing.T) {
	topic := sampleTopic()
	topic.Examples = []string{strings.Repeat("é", maxQuotedExample+20)}

	lyric := NewComposer(60 * time.Second).Compose(topic, sampleSteps())
	if !utf8.ValidString(lyric) {
		t.Fatal("truncated quote produced invalid UTF-8")
	}
	if want := strings.Repeat("é", maxQuotedExample); !strings.Contains(lyric, want) {
		t.Error("quote not truncated at the rune cap")
	}
}

func TestChantLineNoConsecutiveDuplicates(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
	}{
		{name: "single keyword", keywords: []string{"outage"}},
		{name: "two keywords", keywords: []string{"outage", "tower"}},
		{name: "no keywords", keywords: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := chantLine(tt.keywords)
			words := strings.Fields(strings.ToLower(strings.NewReplacer(",", "", ".", "").Replace(line)))
			for i := 1; i < len(words); i++ {
				if words[i] == words[i-1] {
					t.Fatalf("consecutive duplicate %q in chant %q", words[i], line)
				}
			}
		})
	}
}
