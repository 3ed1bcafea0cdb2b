// Package checkpoint persists crawl state so an interrupted keyword
// crawl can resume where it left off.
package checkpoint

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"weiboscraper/pkg/logger"
	"weiboscraper/pkg/models"
)

// Checkpoint represents the state of one keyword crawl.
type Checkpoint struct {
	Keyword          string              `json:"keyword"`
	LastPage         int                 `json:"last_page"`
	ConsecutiveEmpty int                 `json:"consecutive_empty"`
	Records          []models.PostRecord `json:"records"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Version          int                 `json:"version"`
}

// Manager handles checkpoint operations for one keyword.
type Manager struct {
	checkpointPath string
	logger         logger.Logger
}

// NewManager creates a checkpoint manager. Checkpoints live under the
// user config directory, keyed by a digest of the keyword since
// keywords are arbitrary text.
func NewManager(keyword string) (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	checkpointsDir := filepath.Join(configDir, "weiboscraper", "checkpoints")
	if err := os.MkdirAll(checkpointsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	sum := sha1.Sum([]byte(keyword))
	name := fmt.Sprintf("%s.checkpoint.json", hex.EncodeToString(sum[:8]))

	return &Manager{
		checkpointPath: filepath.Join(checkpointsDir, name),
		logger:         logger.GetLogger(),
	}, nil
}

// NewManagerInDir creates a checkpoint manager rooted at an explicit
// directory instead of the user config directory.
func NewManagerInDir(dir, keyword string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	sum := sha1.Sum([]byte(keyword))
	name := fmt.Sprintf("%s.checkpoint.json", hex.EncodeToString(sum[:8]))

	return &Manager{
		checkpointPath: filepath.Join(dir, name),
		logger:         logger.GetLogger(),
	}, nil
}

// Exists reports whether a checkpoint file is present.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// Load loads an existing checkpoint. A missing file is not an error;
// it returns nil.
func (m *Manager) Load() (*Checkpoint, error) {
	data, err := os.ReadFile(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}

	m.logger.InfoWithFields("checkpoint loaded", map[string]interface{}{
		"keyword":    cp.Keyword,
		"last_page":  cp.LastPage,
		"records":    len(cp.Records),
		"updated_at": cp.UpdatedAt,
	})

	return &cp, nil
}

// Save writes the checkpoint to disk atomically via a temp file rename.
func (m *Manager) Save(cp *Checkpoint) error {
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = time.Now()
	if cp.Version == 0 {
		cp.Version = 1
	}

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	tmpPath := m.checkpointPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := os.Rename(tmpPath, m.checkpointPath); err != nil {
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}

	return nil
}

// Delete removes the checkpoint file.
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}

// Path returns the checkpoint file location.
func (m *Manager) Path() string {
	return m.checkpointPath
}
