// Package jsonfile persists player profiles as a single JSON document keyed by
// user id, with active quests in a sibling document.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/oozu/internal/game/player"
	"github.com/cory-johannsen/oozu/internal/game/quest"
)

// Store reads and writes whole-document snapshots.
type Store struct {
	path       string
	questsPath string
	logger     *zap.Logger

	mu sync.Mutex
}

// New creates a Store for the players document at path. Quests are kept in
// path with its extension replaced by ".quests.json".
//
// Precondition: path must be non-empty.
func New(path string, logger *zap.Logger) *Store {
	ext := filepath.Ext(path)
	return &Store{
		path:       path,
		questsPath: strings.TrimSuffix(path, ext) + ".quests.json",
		logger:     logger,
	}
}

// Path returns the players document location.
func (s *Store) Path() string {
	return s.path
}

// LoadPlayers reads every profile.
//
// Postcondition: A missing, blank, or malformed document yields an empty map
// and no error. Creatures without a level load at level 1.
func (s *Store) LoadPlayers(ctx context.Context) (map[string]*player.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := make(map[string]*player.Profile)
	if err := s.read(s.path, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]*player.Profile, len(raw))
	for userID, p := range raw {
		if p == nil {
			continue
		}
		p.UserID = userID
		if p.Inventory == nil {
			p.Inventory = player.Inventory{}
		}
		p.Inventory.Scrub()
		for i := range p.Oozu {
			if p.Oozu[i].Level < 1 {
				p.Oozu[i].Level = 1
			}
		}
		out[userID] = p
	}
	return out, nil
}

// SavePlayers overwrites the players document.
//
// Postcondition: The write is atomic; readers see the old or new document.
func (s *Store) SavePlayers(ctx context.Context, profiles []*player.Profile) error {
	payload := make(map[string]*player.Profile, len(profiles))
	for _, p := range profiles {
		payload[p.UserID] = p
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.path, payload)
}

// LoadQuests reads the quest snapshot.
func (s *Store) LoadQuests(ctx context.Context) (map[string]*quest.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*quest.Quest)
	if err := s.read(s.questsPath, &out); err != nil {
		return nil, err
	}
	for userID, q := range out {
		if q == nil {
			delete(out, userID)
		}
	}
	return out, nil
}

// SaveQuests overwrites the quest snapshot.
func (s *Store) SaveQuests(ctx context.Context, quests []*quest.Quest) error {
	payload := make(map[string]*quest.Quest, len(quests))
	for _, q := range quests {
		payload[q.UserID] = q
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.questsPath, payload)
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func (s *Store) read(path string, into any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}
	if !json.Valid(data) {
		s.logger.Warn("ignoring malformed save file", zap.String("path", path))
		return nil
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func (s *Store) write(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
