// Package store persists the mock backend's food list as a JSON file.
//
// The file uses the json-server layout ({"foods": [...]}) so the same data
// can be served by either backend.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "github.com/dbmrq/gorestaurant/internal/errors"
	"github.com/dbmrq/gorestaurant/internal/food"
)

// Metadata describes the store file itself.
type Metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// NextID is the ID the next created item receives. IDs are never
	// reused, even after a delete.
	NextID int `json:"next_id"`
}

// document is the on-disk layout.
type document struct {
	Metadata Metadata    `json:"metadata"`
	Foods    []food.Item `json:"foods"`
}

func newDocument() *document {
	now := time.Now()
	return &document{
		Metadata: Metadata{Version: "1.0", CreatedAt: now, UpdatedAt: now, NextID: 1},
		Foods:    []food.Item{},
	}
}

// Store holds the food list in memory and writes it to path on Save.
type Store struct {
	path string
	mu   sync.RWMutex
	doc  *document

	// commitMu serializes Commit calls.
	commitMu sync.Mutex
}

// New creates a Store for path. It does not touch the file; call Load.
func New(path string) *Store {
	return &Store{path: path, doc: newDocument()}
}

// Path returns the file path of the store.
func (s *Store) Path() string {
	return s.path
}

// Load reads the file. A missing file yields an empty store.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.doc = newDocument()
			return nil
		}
		return fmt.Errorf("failed to read food store: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse food store: %w", err)
	}
	if doc.Foods == nil {
		doc.Foods = []food.Item{}
	}
	// Files written by hand or by json-server carry no next_id.
	for _, it := range doc.Foods {
		if it.ID >= doc.Metadata.NextID {
			doc.Metadata.NextID = it.ID + 1
		}
	}
	if doc.Metadata.NextID < 1 {
		doc.Metadata.NextID = 1
	}

	s.doc = &doc
	return nil
}

// Save writes the store to its file, creating parent directories.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Metadata.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal food store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write food store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write food store: %w", err)
	}
	return nil
}

// Commit runs fn against a copy of the store and saves the copy to the
// store's file. The store only takes the new state when both succeed;
// readers never see a change that failed to persist.
func (s *Store) Commit(fn func(tx *Store) error) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.RLock()
	tx := &Store{path: s.path, doc: s.doc.clone()}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Save(); err != nil {
		return err
	}

	s.mu.Lock()
	s.doc = tx.doc
	s.mu.Unlock()
	return nil
}

func (d *document) clone() *document {
	foods := make([]food.Item, len(d.Foods))
	copy(foods, d.Foods)
	return &document{Metadata: d.Metadata, Foods: foods}
}

// List returns a copy of all items in insertion order.
func (s *Store) List() []food.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]food.Item, len(s.doc.Foods))
	copy(out, s.doc.Foods)
	return out
}

// Count returns the number of items.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc.Foods)
}

// Get retrieves an item by ID.
func (s *Store) Get(id int) (food.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.doc.Foods {
		if it.ID == id {
			return it, true
		}
	}
	return food.Item{}, false
}

// Create assigns the next ID to it, appends it and returns the stored item.
// Any ID on it is ignored.
func (s *Store) Create(it food.Item) food.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	it.ID = s.doc.Metadata.NextID
	s.doc.Metadata.NextID++
	s.doc.Foods = append(s.doc.Foods, it)
	return it
}

// Update replaces the item with it.ID in place.
func (s *Store) Update(it food.Item) (food.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cur := range s.doc.Foods {
		if cur.ID == it.ID {
			s.doc.Foods[i] = it
			return it, nil
		}
	}
	return food.Item{}, apperrors.FoodNotFound(it.ID)
}

// Delete removes the item with the given ID.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.doc.Foods {
		if it.ID == id {
			s.doc.Foods = append(s.doc.Foods[:i], s.doc.Foods[i+1:]...)
			return nil
		}
	}
	return apperrors.FoodNotFound(id)
}

// Seed fills an empty store with items, assigning fresh IDs. It does
// nothing if the store already holds items and reports whether it seeded.
func (s *Store) Seed(items []food.Item) bool {
	s.mu.Lock()
	if len(s.doc.Foods) > 0 {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	for _, it := range items {
		s.Create(it)
	}
	return true
}

// Metadata returns the store metadata.
func (s *Store) Metadata() Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Metadata
}

// SampleMenu is the menu "serve --seed" starts from.
func SampleMenu() []food.Item {
	return []food.Item{
		{Name: "Ao molho", Price: "19.90", Description: "Pasta in white sauce with funghi and parsley.", Available: true},
		{Name: "Veggie", Price: "21.90", Description: "Pasta with peppers, peas and fine herbs.", Available: true},
		{Name: "A la Camarón", Price: "25.90", Description: "Pasta with vegetables and shrimp.", Available: false},
	}
}
