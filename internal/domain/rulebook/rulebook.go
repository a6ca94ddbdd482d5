// Package rulebook holds the fixed quiz and nature tables. They are parsed
// once at startup and never mutated afterwards.
package rulebook

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/nature-bot/internal/entities"
)

// Rulebook is the read-only set of lookup tables shared by every user
type Rulebook struct {
	questions []entities.Question
	answers   map[string]entities.NatureProfile
	natures   map[string]entities.NatureStatProfile
	byLower   map[string]string
}

type document struct {
	Questions []entities.Question                   `yaml:"questions"`
	Answers   map[string]entities.NatureProfile     `yaml:"answers"`
	Natures   map[string]entities.NatureStatProfile `yaml:"natures"`
}

// Load parses the embedded tables
func Load() (*Rulebook, error) {
	return Parse(embeddedRulebook)
}

// MustLoad is Load for process start, where a broken table is fatal
func MustLoad() *Rulebook {
	rb, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load rulebook: %v", err))
	}
	return rb
}

// Parse builds a rulebook from YAML and validates it
func Parse(data []byte) (*Rulebook, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rulebook: %w", err)
	}

	rb := &Rulebook{
		questions: doc.Questions,
		answers:   doc.Answers,
		natures:   doc.Natures,
		byLower:   make(map[string]string, len(doc.Natures)),
	}
	for name := range doc.Natures {
		rb.byLower[strings.ToLower(name)] = name
	}

	if err := rb.validate(); err != nil {
		return nil, err
	}
	return rb, nil
}

func (r *Rulebook) validate() error {
	if len(r.questions) == 0 {
		return fmt.Errorf("rulebook has no questions")
	}
	seen := make(map[string]bool, len(r.questions))
	for _, q := range r.questions {
		if seen[q.Prompt] {
			return fmt.Errorf("duplicate question %q", q.Prompt)
		}
		seen[q.Prompt] = true
		if len(q.Options) < 2 {
			return fmt.Errorf("question %q needs at least two options", q.Prompt)
		}
	}

	for answer, profile := range r.answers {
		if _, ok := r.natures[profile.Nature]; !ok {
			return fmt.Errorf("answer %q maps to nature %q with no stat profile", answer, profile.Nature)
		}
	}

	for name, profile := range r.natures {
		for cat := range profile.Modifiers {
			if !cat.Valid() {
				return fmt.Errorf("nature %q has unknown stat category %q", name, cat)
			}
		}
	}
	return nil
}

// Questions returns a copy of the question bank, safe to shuffle
func (r *Rulebook) Questions() []entities.Question {
	out := make([]entities.Question, len(r.questions))
	copy(out, r.questions)
	return out
}

// ProfileForAnswer returns the nature bound to an answer option, or the
// Unknown profile when the option has none
func (r *Rulebook) ProfileForAnswer(answer string) entities.NatureProfile {
	if profile, ok := r.answers[answer]; ok {
		return profile
	}
	return entities.UnknownNatureProfile
}

// LookupNature resolves a nature name case-insensitively to its canonical
// spelling and stat profile
func (r *Rulebook) LookupNature(name string) (string, entities.NatureStatProfile, bool) {
	canonical, ok := r.byLower[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", entities.NatureStatProfile{}, false
	}
	return canonical, r.natures[canonical], true
}

// NatureNames lists every nature alphabetically
func (r *Rulebook) NatureNames() []string {
	names := make([]string, 0, len(r.natures))
	for name := range r.natures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
