package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/untibullet/issue-activity-report/internal/baseline"
	"github.com/untibullet/issue-activity-report/internal/models"
)

// LoadFile читает датасет из JSON-файла
func LoadFile(path string, opts baseline.Options) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	st, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return st, nil
}

// Load читает подготовленный датасет либо сырую выгрузку сборщика.
// Выгрузка без user_activity и daily_activity считается сырой и проходит через baseline.Build.
func Load(r io.Reader, opts baseline.Options) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	_, hasUsers := keys["user_activity"]
	_, hasDaily := keys["daily_activity"]
	if hasUsers || hasDaily {
		var ds models.Dataset
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("failed to decode dataset: %w", err)
		}
		return New(ds)
	}

	var raw models.RawExport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode collector export: %w", err)
	}
	ds, err := baseline.Build(raw, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build baseline: %w", err)
	}
	return New(ds)
}

// WriteJSON сериализует хранилище в подготовленный датасет
func (s *Store) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Dataset()); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	return nil
}
