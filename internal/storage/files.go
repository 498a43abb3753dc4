package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/questbro/questbro/internal/game"
)

// LoadGameData reads a catalogue JSON file.
func LoadGameData(path string) (*game.GameData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue %q: %w", path, err)
	}
	var data game.GameData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse catalogue %q: %w", path, err)
	}
	return &data, nil
}

// SaveGameData writes a catalogue JSON file.
func SaveGameData(path string, data *game.GameData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalogue: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write catalogue %q: %w", path, err)
	}
	return nil
}

// LoadRunFile reads a run JSON file.
func LoadRunFile(path string) (*game.GameRun, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run %q: %w", path, err)
	}
	var run game.GameRun
	if err := json.Unmarshal(raw, &run); err != nil {
		return nil, fmt.Errorf("parse run %q: %w", path, err)
	}
	return &run, nil
}

// SaveRunFile writes a run JSON file, refreshing its LastModified stamp.
func SaveRunFile(path string, run *game.GameRun) error {
	run.LastModified = time.Now().UTC()
	raw, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write run %q: %w", path, err)
	}
	return nil
}

// CatalogueInfo identifies a discovered catalogue file.
type CatalogueInfo struct {
	Path    string
	GameID  string
	Name    string
	Version string
}

// DiscoverCatalogues scans a directory for *.json catalogue files, sorted by
// game name. Files that fail to parse are skipped.
func DiscoverCatalogues(dir string) ([]CatalogueInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", dir, err)
	}
	var found []CatalogueInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := LoadGameData(path)
		if err != nil || data.GameID == "" {
			continue
		}
		found = append(found, CatalogueInfo{
			Path:    path,
			GameID:  data.GameID,
			Name:    data.Name,
			Version: data.Version,
		})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}
