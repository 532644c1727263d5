// Package catalog holds the bundled default questions.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"vocab-quiz-service/internal/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type entry struct {
	Text    string   `yaml:"text"`
	Choices []string `yaml:"choices"`
	Correct int      `yaml:"correct"`
}

// Catalog is an immutable set of bundled questions per category.
type Catalog struct {
	questions map[domain.Category][]domain.Question
}

// Load parses the embedded defaults.
func Load() (*Catalog, error) {
	return Parse(defaultsYAML)
}

// MustLoad is Load for wiring code where the embedded file is known good.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from YAML keyed by category name.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string][]entry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{questions: make(map[domain.Category][]domain.Question, len(raw))}
	for name, entries := range raw {
		category, err := domain.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("catalog category %q: %w", name, err)
		}
		questions := make([]domain.Question, 0, len(entries))
		for i, e := range entries {
			q := domain.Question{
				ID:           fmt.Sprintf("%s-%03d", category, i+1),
				Text:         e.Text,
				Choices:      e.Choices,
				CorrectIndex: e.Correct,
				Category:     category,
				Origin:       domain.OriginBundled,
				BundledIndex: i,
			}
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("catalog %s[%d]: %w", category, i, err)
			}
			questions = append(questions, q)
		}
		c.questions[category] = questions
	}
	return c, nil
}

// Defaults returns a fresh copy of the bundled questions for category.
func (c *Catalog) Defaults(category domain.Category) []domain.Question {
	src := c.questions[category]
	out := make([]domain.Question, len(src))
	for i, q := range src {
		out[i] = q.Clone()
	}
	return out
}
