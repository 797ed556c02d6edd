package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// templateFile is the on-disk YAML shape of a template set.
type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// LoadFile reads and validates a YAML template file. A missing file returns
// an empty set, not an error, so a fresh install can run before any
// templates are curated.
func LoadFile(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for i, t := range f.Templates {
		if t.Venue == "" {
			return nil, fmt.Errorf("%s: template %d missing 'venue'", path, i+1)
		}
		if t.Year == "" {
			return nil, fmt.Errorf("%s: template %d (%s) missing 'year'", path, i+1, t.Venue)
		}
		if t.Type == "" {
			return nil, fmt.Errorf("%s: template %d (%s, %s) missing 'type'", path, i+1, t.Venue, t.Year)
		}
		if len(t.Fields) == 0 {
			return nil, fmt.Errorf("%s: template %d (%s, %s) has no fields", path, i+1, t.Venue, t.Year)
		}
	}

	return f.Templates, nil
}

// SaveFile writes a template set sorted reverse-chronologically by year,
// then by venue. If the file already exists it is first copied to a .bak
// backup.
func SaveFile(path string, templates []Template) error {
	sorted := append([]Template(nil), templates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := yearValue(sorted[i].Year), yearValue(sorted[j].Year)
		if yi != yj {
			return yi > yj
		}
		return strings.ToLower(sorted[i].Venue) < strings.ToLower(sorted[j].Venue)
	})

	data, err := yaml.Marshal(templateFile{Templates: sorted})
	if err != nil {
		return fmt.Errorf("encoding templates: %w", err)
	}

	if prev, err := os.ReadFile(path); err == nil {
		backup := path + ".bak"
		if err := os.WriteFile(backup, prev, 0644); err != nil {
			return fmt.Errorf("writing backup %s: %w", backup, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// yearValue extracts a sortable integer from a year string. Ranges sort by
// their first year; unparseable years sort last.
func yearValue(year string) int {
	value := 0
	seen := false
	for _, r := range year {
		if r < '0' || r > '9' {
			if seen {
				break
			}
			continue
		}
		value = value*10 + int(r-'0')
		seen = true
	}
	if !seen {
		return -1
	}
	return value
}
