package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// savedAccount is the on-disk shape of the persisted connection state.
type savedAccount struct {
	Address   string `json:"address"`
	ChainID   uint64 `json:"chain_id"`
	UpdatedAt string `json:"updated_at"`
}

// AccountStore persists the last-connected account so a read-only view can
// be re-established after a restart without prompting the wallet.
type AccountStore struct {
	path    string
	enabled bool
}

func NewAccountStore(path string, enabled bool) *AccountStore {
	return &AccountStore{path: path, enabled: enabled}
}

// Load returns the persisted account address and chain, if any.
func (s *AccountStore) Load() (address string, chainID uint64, ok bool, err error) {
	if !s.enabled {
		return "", 0, false, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", 0, false, nil
		}
		return "", 0, false, fmt.Errorf("read account state: %w", err)
	}

	var saved savedAccount
	if err := json.Unmarshal(data, &saved); err != nil {
		return "", 0, false, fmt.Errorf("parse account state: %w", err)
	}
	if saved.Address == "" {
		return "", 0, false, nil
	}
	return saved.Address, saved.ChainID, true, nil
}

// Save writes the connection state atomically via tmp file and rename.
func (s *AccountStore) Save(address string, chainID uint64) error {
	if !s.enabled {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create account state dir: %w", err)
		}
	}

	saved := savedAccount{
		Address:   address,
		ChainID:   chainID,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("marshal account state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write account state tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename account state: %w", err)
	}

	return nil
}

// Clear removes the persisted state, for explicit disconnects.
func (s *AccountStore) Clear() error {
	if !s.enabled {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove account state: %w", err)
	}
	return nil
}
