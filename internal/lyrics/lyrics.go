// Package lyrics composes the narrated lyric text for a topic, sized so
// the synthesized vocal roughly matches but does not exceed the target
// song duration.
package lyrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/pulselab/brandtune/internal/topics"
)

// DefaultWordsPerSecond is the assumed speaking rate of the TTS voice.
const DefaultWordsPerSecond = 2.5

// maxQuotedExample caps how many runes of a member post are quoted
// verbatim.
const maxQuotedExample = 100

// Composer builds lyric text from topic metadata and solution steps.
type Composer struct {
	TargetDuration time.Duration
	WordsPerSecond float64
}

// NewComposer returns a composer targeting the given song duration.
func NewComposer(target time.Duration) *Composer {
	return &Composer{
		TargetDuration: target,
		WordsPerSecond: DefaultWordsPerSecond,
	}
}

// Compose renders the lyric for a topic. Output is deterministic and its
// word count stays within the budget implied by the target duration and
// speaking rate.
func (c *Composer) Compose(t topics.Topic, steps []string) string {
	wps := c.WordsPerSecond
	if wps <= 0 {
		wps = DefaultWordsPerSecond
	}
	budget := int(c.TargetDuration.Seconds() * wps)
	if budget <= 0 {
		budget = int(30 * DefaultWordsPerSecond)
	}

	var sentences []string
	sentences = append(sentences, fmt.Sprintf("This is the story of %s.", t.Name))

	switch {
	case t.Emotion.Polarity < -0.15:
		sentences = append(sentences,
			"Customers are facing some challenges.",
			"Let me tell you what has been happening.")
	case t.Emotion.Polarity > 0.15:
		sentences = append(sentences,
			"Customers are really loving this.",
			"Let me share the good news.")
	default:
		sentences = append(sentences,
			"There are mixed feelings about this.",
			"Here is what people are saying.")
	}

	for i, example := range t.Examples {
		if i >= 2 {
			break
		}
		quote := example
		if runes := []rune(quote); len(runes) > maxQuotedExample {
			quote = string(runes[:maxQuotedExample])
		}
		if i == 0 {
			sentences = append(sentences, fmt.Sprintf("One voice said, %s.", quote))
		} else {
			sentences = append(sentences, fmt.Sprintf("Another added, %s.", quote))
		}
	}

	if len(steps) > 0 && t.Emotion.Polarity < -0.15 {
		sentences = append(sentences,
			"But do not worry, there is a way forward.",
			fmt.Sprintf("Step one: %s.", steps[0]))
	} else if len(steps) > 0 {
		sentences = append(sentences, fmt.Sprintf("First move: %s.", steps[0]))
	}

	sentences = append(sentences, chantLine(t.Keywords))
	sentences = append(sentences,
		fmt.Sprintf("That is the story on %s.", t.Name),
		"Stay tuned for more.")

	return trimToBudget(sentences, budget)
}

// chantLine builds a short refrain from the top keywords without ever
// placing the same keyword twice in a row.
func chantLine(keywords []string) string {
	if len(keywords) == 0 {
		return "Listen close, listen well."
	}

	var words []string
	prev := ""
	for i := 0; len(words) < 6; i++ {
		kw := keywords[i%len(keywords)]
		if kw == prev {
			words = append(words, "yeah")
			prev = "yeah"
			continue
		}
		words = append(words, kw)
		prev = kw
	}
	return strings.Join(words, ", ") + "."
}

// trimToBudget joins whole sentences while they fit the word budget. The
// opening sentence is always kept so the lyric is never empty.
func trimToBudget(sentences []string, budget int) string {
	var kept []string
	used := 0
	for i, s := range sentences {
		n := len(strings.Fields(s))
		if i > 0 && used+n > budget {
			break
		}
		kept = append(kept, s)
		used += n
	}
	return strings.Join(kept, " ")
}
