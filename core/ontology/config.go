package ontology

import (
	"os"
	"sync"

	"github.com/siherrmann/wikigrapher/helper"
	"gopkg.in/yaml.v3"
)

// PredicateConfig maps one or more field keys to a predicate.
type PredicateConfig struct {
	Keys       []string `yaml:"keys"`
	IRI        string   `yaml:"iri"`
	Class      string   `yaml:"class,omitempty"`
	FirstOnly  bool     `yaml:"first_only,omitempty"`
	Structured bool     `yaml:"structured,omitempty"`
}

// TypeConfig maps template names to a type.
type TypeConfig struct {
	Keys []string `yaml:"keys"`
	IRI  string   `yaml:"iri"`
}

// HeuristicsConfig lists the field keys used to guess a type without template match.
type HeuristicsConfig struct {
	Biography       []string `yaml:"biography"`
	ModernBiography []string `yaml:"modern_biography"`
	Place           []string `yaml:"place"`
	Film            []string `yaml:"film"`
	Book            []string `yaml:"book"`
	Game            []string `yaml:"game"`
}

// VocabularyConfig is the serializable form of a Vocabulary.
type VocabularyConfig struct {
	Predicates           []PredicateConfig `yaml:"predicates"`
	Types                []TypeConfig      `yaml:"types"`
	Genders              map[string]string `yaml:"genders"`
	LocationEmptySignals []string          `yaml:"location_empty_signals"`
	RelationEmptySignals []string          `yaml:"relation_empty_signals"`
	NegativePhrases      []string          `yaml:"negative_phrases"`
	NegativePairs        [][]string        `yaml:"negative_pairs"`
	Heuristics           HeuristicsConfig  `yaml:"heuristics"`
}

var (
	defaultVocabulary     *Vocabulary
	defaultVocabularyOnce sync.Once
)

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	defaultVocabularyOnce.Do(func() {
		v, err := NewVocabulary(DefaultVocabularyConfig())
		if err != nil {
			panic(err)
		}
		defaultVocabulary = v
	})
	return defaultVocabulary
}

// LoadVocabulary reads a YAML file and merges it onto the defaults.
// Predicates in the file override keys of the defaults, type rules in the
// file are checked before the default ones and genders are added.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, helper.NewError("read vocabulary file", err)
	}

	var override VocabularyConfig
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, helper.NewError("parse vocabulary file", err)
	}

	return NewVocabulary(DefaultVocabularyConfig().Merge(override))
}

// Merge returns a copy of c with other applied on top.
func (c VocabularyConfig) Merge(other VocabularyConfig) VocabularyConfig {
	merged := c
	merged.Predicates = append(append([]PredicateConfig{}, c.Predicates...), other.Predicates...)
	merged.Types = append(append([]TypeConfig{}, other.Types...), c.Types...)

	merged.Genders = make(map[string]string, len(c.Genders)+len(other.Genders))
	for k, v := range c.Genders {
		merged.Genders[k] = v
	}
	for k, v := range other.Genders {
		merged.Genders[k] = v
	}

	if other.LocationEmptySignals != nil {
		merged.LocationEmptySignals = other.LocationEmptySignals
	}
	if other.RelationEmptySignals != nil {
		merged.RelationEmptySignals = other.RelationEmptySignals
	}
	merged.NegativePhrases = append(append([]string{}, c.NegativePhrases...), other.NegativePhrases...)
	merged.NegativePairs = append(append([][]string{}, c.NegativePairs...), other.NegativePairs...)

	return merged
}
