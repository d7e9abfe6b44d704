package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/dealsteal/app/ebay"
)

var extensions = map[string]bool{
	".json": true,
	".yml":  true,
	".yaml": true,
}

type Loader struct {
	queriesDir string
}

func NewLoader(queriesDir string) *Loader {
	return &Loader{queriesDir: queriesDir}
}

// Load reads every definition file in lexical filename order. A missing
// directory yields no queries. Any unreadable or invalid file fails the load.
func (l *Loader) Load() ([]Query, error) {
	entries, err := os.ReadDir(l.queriesDir)
	if os.IsNotExist(err) {
		slog.Warn("Queries directory does not exist", "dir", l.queriesDir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read queries directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if extensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	var queries []Query
	for _, name := range files {
		fileQueries, err := l.LoadFile(filepath.Join(l.queriesDir, name))
		if err != nil {
			return nil, err
		}
		queries = append(queries, fileQueries...)
	}

	slog.Debug("Queries loaded", "dir", l.queriesDir, "files", len(files), "queries", len(queries))

	return queries, nil
}

// LoadFile parses a single definition file holding one object or a list.
func (l *Loader) LoadFile(path string) ([]Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var queries []Query
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		queries, err = parseJSON(data)
	default:
		queries, err = parseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i := range queries {
		queries[i].Name = base
		if len(queries) > 1 {
			queries[i].Name = fmt.Sprintf("%s[%d]", base, i)
		}
		if err := normalize(&queries[i]); err != nil {
			return nil, fmt.Errorf("invalid query %s: %w", queries[i].Name, err)
		}
	}

	return queries, nil
}

func parseJSON(data []byte) ([]Query, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var queries []Query
		if err := json.Unmarshal(trimmed, &queries); err != nil {
			return nil, err
		}
		return queries, nil
	}

	var q Query
	if err := json.Unmarshal(trimmed, &q); err != nil {
		return nil, err
	}
	return []Query{q}, nil
}

func parseYAML(data []byte) ([]Query, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var queries []Query
		if err := root.Decode(&queries); err != nil {
			return nil, err
		}
		return queries, nil
	case yaml.MappingNode:
		var q Query
		if err := root.Decode(&q); err != nil {
			return nil, err
		}
		return []Query{q}, nil
	default:
		return nil, fmt.Errorf("expected a mapping or a sequence at line %d", root.Line)
	}
}

func normalize(q *Query) error {
	q.Keywords = strings.TrimSpace(q.Keywords)
	if q.Keywords == "" {
		return fmt.Errorf("keywords are required")
	}
	if q.MinPrice < 0 || q.MaxPrice < 0 {
		return fmt.Errorf("prices must not be negative")
	}
	if q.MinPrice > 0 && q.MaxPrice > 0 && q.MinPrice > q.MaxPrice {
		return fmt.Errorf("min_price %v is greater than max_price %v", q.MinPrice, q.MaxPrice)
	}

	for i, r := range q.Regions {
		q.Regions[i] = strings.ToUpper(strings.TrimSpace(r))
	}
	return ebay.ValidateRegions(q.Regions)
}
