// Package state persists the project workflow state between invocations.
// Each command loads the state file, applies one change, and saves it back;
// there is no locking, so concurrent invocations against the same project
// are last-writer-wins.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const stateVersion = "1"

// Store manages the workflow state file for a single project directory.
type Store struct {
	filePath string
	state    *State
}

// NewStore creates a store rooted at the given project directory. The state
// file lives at <projectDir>/.modflow/state.json.
func NewStore(projectDir string) *Store {
	return &Store{
		filePath: filepath.Join(projectDir, ".modflow", "state.json"),
	}
}

// Load reads the state file from disk. A missing file is not an error; the
// store simply has no state until Initialize is called.
func (s *Store) Load() error {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return fmt.Errorf("failed to parse state file %s: %w", s.filePath, err)
	}
	s.state = &st
	return nil
}

// Save writes the current state to disk, creating the directory if needed.
func (s *Store) Save() error {
	if s.state == nil {
		return fmt.Errorf("no state to save")
	}
	s.state.UpdatedAt = time.Now()

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	raw, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.WriteFile(s.filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// State returns the loaded state, or nil when no state file exists yet.
func (s *Store) State() *State {
	return s.state
}

// Initialize creates a fresh active state for the project and keeps it in
// memory; the caller persists it with Save.
func (s *Store) Initialize(projectName, appName string) *State {
	s.state = &State{
		Version:       stateVersion,
		ProjectName:   projectName,
		AppName:       appName,
		Status:        WorkflowActive,
		Modifications: []ModificationCycle{},
	}
	return s.state
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.filePath
}
