package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jrosariodev/dealscout/internal/models"
)

// Snapshot is the JSON file a scrape run produces and the API serves from:
// deals grouped by site under a metadata header.
type Snapshot struct {
	Metadata SnapshotMetadata          `json:"metadata"`
	Data     map[string][]*models.Deal `json:"data"`
}

type SnapshotMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	TotalDeals  int       `json:"total_deals"`
}

// SnapshotStore persists scrape results to a JSON file. Safe for concurrent
// use; the file is rewritten whole on every save.
type SnapshotStore struct {
	mu       sync.RWMutex
	filename string
}

func NewSnapshotStore(filename string) *SnapshotStore {
	return &SnapshotStore{filename: filename}
}

func (s *SnapshotStore) Save(results map[string][]*models.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, deals := range results {
		total += len(deals)
	}

	snapshot := Snapshot{
		Metadata: SnapshotMetadata{
			GeneratedAt: time.Now().UTC(),
			TotalDeals:  total,
		},
		Data: results,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp := s.filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.filename); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Load() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snapshot, nil
}

// Deals flattens the snapshot into a single list.
func (s *Snapshot) Deals() []*models.Deal {
	var all []*models.Deal
	for _, deals := range s.Data {
		all = append(all, deals...)
	}
	return all
}
