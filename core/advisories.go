package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Advisory is one curated (commit, identifier) association. The curated list
// is maintained by hand and trusted as authoritative: it is processed before
// the search-discovery pass and its data is never overwritten by it.
type Advisory struct {
	Commit      string `yaml:"commit"`
	Identifier  string `yaml:"identifier"`
	Description string `yaml:"description,omitempty"`
}

// advisoriesFile is the on-disk shape of the curated advisories document.
type advisoriesFile struct {
	Advisories []Advisory `yaml:"advisories"`
}

// LoadAdvisories reads the curated advisories YAML file. An empty path means
// no curated list, which is valid; the miner then relies on search discovery
// alone.
func LoadAdvisories(path string) ([]Advisory, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read advisories file %q: %w", path, err)
	}
	var doc advisoriesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse advisories file %q: %w", path, err)
	}
	for i, adv := range doc.Advisories {
		if adv.Commit == "" || adv.Identifier == "" {
			return nil, fmt.Errorf("advisory %d in %q is missing commit or identifier", i+1, path)
		}
	}
	return doc.Advisories, nil
}
