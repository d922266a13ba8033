package store

import (
	"sync"
	"time"

	"screennotes/internal/util"
	"screennotes/pkg/domain"
)

// MemoryStore keeps notes and settings in-process. Used by tests and dev mode.
type MemoryStore struct {
	mu    sync.RWMutex
	notes map[string]domain.Note
	order []string // note IDs in insertion order
	langs map[string]domain.Language
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notes: make(map[string]domain.Note),
		langs: make(map[string]domain.Language),
	}
}

// SaveNote stores the note, assigning an ID and creation time when absent.
func (m *MemoryStore) SaveNote(note domain.Note) (domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if note.ID == "" {
		note.ID = util.NewID()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	note.Tags = domain.NormalizeTags(note.Tags)
	if _, exists := m.notes[note.ID]; !exists {
		m.order = append(m.order, note.ID)
	}
	m.notes[note.ID] = note
	return note, nil
}

// ListRecentNotes returns the owner's notes, newest first.
func (m *MemoryStore) ListRecentNotes(ownerID string, limit int) ([]domain.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 10
	}
	var res []domain.Note
	for i := len(m.order) - 1; i >= 0 && len(res) < limit; i-- {
		if n, ok := m.notes[m.order[i]]; ok && n.OwnerID == ownerID {
			res = append(res, n)
		}
	}
	return res, nil
}

// GetUserLanguage returns the stored language preference, if any.
func (m *MemoryStore) GetUserLanguage(ownerID string) (domain.Language, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lang, ok := m.langs[ownerID]
	return lang, ok, nil
}

// SetUserLanguage stores the language preference.
func (m *MemoryStore) SetUserLanguage(ownerID string, lang domain.Language) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.langs[ownerID] = lang
	return nil
}
