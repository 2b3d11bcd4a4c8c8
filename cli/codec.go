package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"

	"catalogquery/domain"

	"gopkg.in/yaml.v3"
)

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// decodeItems reads a YAML list when name has a YAML extension, otherwise
// a JSON array, a single JSON object, or NDJSON.
func decodeItems(name string, b []byte) ([]domain.Item, error) {
	btrim := bytes.TrimSpace(b)
	if len(btrim) == 0 {
		return nil, errors.New("empty file")
	}

	var items []domain.Item
	if isYAML(name) {
		if err := yaml.Unmarshal(btrim, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	if btrim[0] == '[' {
		if err := json.Unmarshal(btrim, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(btrim))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var item domain.Item
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// encodeItems writes YAML for YAML file names and indented JSON otherwise.
func encodeItems(name string, items []domain.Item) ([]byte, error) {
	if items == nil {
		items = []domain.Item{}
	}
	if isYAML(name) {
		return yaml.Marshal(items)
	}
	return json.MarshalIndent(items, "", "  ")
}
