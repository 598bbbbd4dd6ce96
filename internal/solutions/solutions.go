// Package solutions produces the fixed four-step action plan attached to
// each discovered topic.
package solutions

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pulselab/brandtune/internal/topics"
)

// StepCount is the exact number of steps in every action plan.
const StepCount = 4

// Polarity thresholds for template family selection.
const (
	negativeBelow = -0.15
	positiveAbove = 0.15
)

//go:embed templates.yaml
var templatesYAML []byte

type family struct {
	Steps []string `yaml:"steps"`
}

type templateFile struct {
	Families map[string]family `yaml:"families"`
}

// Synthesizer fills template families with topic keywords.
type Synthesizer struct {
	families map[string]family
}

// New parses the embedded template families. It fails if a family is
// missing or does not hold exactly StepCount steps.
func New() (*Synthesizer, error) {
	var file templateFile
	if err := yaml.Unmarshal(templatesYAML, &file); err != nil {
		return nil, fmt.Errorf("parsing solution templates: %w", err)
	}

	for _, name := range []string{"negative", "positive", "neutral"} {
		fam, ok := file.Families[name]
		if !ok {
			return nil, fmt.Errorf("solution templates missing family %q", name)
		}
		if len(fam.Steps) != StepCount {
			return nil, fmt.Errorf("family %q has %d steps, want %d", name, len(fam.Steps), StepCount)
		}
	}

	return &Synthesizer{families: file.Families}, nil
}

// Propose returns exactly StepCount action strings for the topic,
// deterministically derived from its keywords and aggregated emotion.
// Topics with fewer keywords than steps reuse keywords cyclically.
func (s *Synthesizer) Propose(t topics.Topic) []string {
	fam := s.families[familyFor(t.Emotion.Polarity)]

	keywords := t.Keywords
	if len(keywords) == 0 {
		keywords = []string{"feedback"}
	}

	steps := make([]string, StepCount)
	for i, tmpl := range fam.Steps {
		kw := keywords[i%len(keywords)]
		steps[i] = strings.ReplaceAll(tmpl, "{keyword}", kw)
	}
	return steps
}

func familyFor(polarity float64) string {
	switch {
	case polarity < negativeBelow:
		return "negative"
	case polarity > positiveAbove:
		return "positive"
	default:
		return "neutral"
	}
}
