package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"BtcSentinel/internal/model"
)

// LoadState reads the portfolio checkpoint from a JSON file. Returns a zero
// state if the file doesn't exist.
func LoadState(filePath string) (*model.Portfolio, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Portfolio{}, nil
		}
		return nil, err
	}
	var state model.Portfolio
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse portfolio state: %w", err)
	}
	return &state, nil
}

// SaveState writes the portfolio checkpoint. The write goes to a temp file
// in the same directory followed by an atomic rename, so a crash mid-write
// never leaves a truncated checkpoint behind.
func SaveState(filePath string, state *model.Portfolio) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(filePath)
	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}
