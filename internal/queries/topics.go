// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package queries

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"
)

// DefaultTopics are the aspects of a filing the generated queries should cover.
var DefaultTopics = []string{
	"Parties involved (Plaintiff, and Defendant)",
	`Legal standards and case law (this is very important, you can find referenced cases because they have a "v." in their title)`,
	"Presiding judges previous rulings (rulings on similar cases, recent cases)",
	"Legal standards applied (interpretation of standards in previous rulings)",
	"Analysis (Likelihood of Success on the Merits, Irreparable Harm, Balance of Equities, Public Interest)",
}

// TopicsFile is the on-disk form of a custom topic list:
//
//	topics:
//	  - Parties involved
//	  - Cited case law
type TopicsFile struct {
	Topics []string `yaml:"topics"`
}

// LoadTopics reads a topic list from a YAML file. An empty path returns a
// copy of DefaultTopics. Blank entries are dropped; a file with no topics is an error.
func LoadTopics(path string) ([]string, error) {
	if path == "" {
		return slices.Clone(DefaultTopics), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topics file: %w", err)
	}

	var tf TopicsFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing topics file %s: %w", path, err)
	}

	var topics []string
	for _, t := range tf.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("topics file %s defines no topics", path)
	}
	return topics, nil
}
