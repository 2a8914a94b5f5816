package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/DecentralDever/unityledger-sync/internal/model"
)

// JsonlStorage appends snapshot records to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

type poolSnapshotLine struct {
	Kind     string       `json:"kind"`
	ChainID  uint64       `json:"chain_id"`
	SyncedAt string       `json:"synced_at"`
	Pools    []model.Pool `json:"pools"`
}

type statsLine struct {
	Kind     string              `json:"kind"`
	ChainID  uint64              `json:"chain_id"`
	SyncedAt string              `json:"synced_at"`
	Stats    model.PlatformStats `json:"stats"`
}

// PutPools appends one full pool snapshot as a JSON line.
func (s *JsonlStorage) PutPools(_ context.Context, chainID uint64, pools []model.Pool, syncedAt time.Time) error {
	return s.appendLine(poolSnapshotLine{
		Kind:     "pool_snapshot",
		ChainID:  chainID,
		SyncedAt: syncedAt.UTC().Format(time.RFC3339Nano),
		Pools:    pools,
	})
}

// PutStats appends one derived stats record as a JSON line.
func (s *JsonlStorage) PutStats(_ context.Context, chainID uint64, stats model.PlatformStats, syncedAt time.Time) error {
	return s.appendLine(statsLine{
		Kind:     "platform_stats",
		ChainID:  chainID,
		SyncedAt: syncedAt.UTC().Format(time.RFC3339Nano),
		Stats:    stats,
	})
}

func (s *JsonlStorage) appendLine(record any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
