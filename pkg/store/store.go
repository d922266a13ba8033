package store

import "screennotes/pkg/domain"

// Store defines persistence operations for notes and user settings.
type Store interface {
	// notes
	SaveNote(domain.Note) (domain.Note, error)
	ListRecentNotes(ownerID string, limit int) ([]domain.Note, error)

	// user settings
	GetUserLanguage(ownerID string) (domain.Language, bool, error)
	SetUserLanguage(ownerID string, lang domain.Language) error
}
