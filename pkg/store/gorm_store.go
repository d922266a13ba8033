package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"screennotes/internal/util"
	"screennotes/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// noteMeta is extraction metadata kept alongside the note as jsonb.
type noteMeta struct {
	Provider string `json:"provider,omitempty"`
	Chars    int    `json:"chars"`
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&NoteModel{}, &NoteTagModel{}, &UserSettingModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveNote inserts the note and its tags in one transaction and returns the
// persisted record with its assigned ID.
func (s *GormStore) SaveNote(note domain.Note) (domain.Note, error) {
	if note.ID == "" {
		note.ID = util.NewID()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	note.Tags = domain.NormalizeTags(note.Tags)

	meta, err := json.Marshal(noteMeta{Provider: note.Provider, Chars: len(note.Content)})
	if err != nil {
		return domain.Note{}, fmt.Errorf("encode note meta: %w", err)
	}
	model := NoteModel{
		ID:        note.ID,
		OwnerID:   note.OwnerID,
		Title:     note.Title,
		Content:   note.Content,
		AssetURL:  note.AssetURL,
		Meta:      datatypes.JSON(meta),
		CreatedAt: note.CreatedAt,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
		for _, tag := range note.Tags {
			if err := tx.Create(&NoteTagModel{NoteID: note.ID, Tag: tag}).Error; err != nil {
				return fmt.Errorf("insert tag %q: %w", tag, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

// ListRecentNotes returns the owner's notes, newest first.
func (s *GormStore) ListRecentNotes(ownerID string, limit int) ([]domain.Note, error) {
	if limit <= 0 {
		limit = 10
	}
	var models []NoteModel
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if len(models) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	var tagModels []NoteTagModel
	if err := s.db.Where("note_id IN ?", ids).Find(&tagModels).Error; err != nil {
		return nil, fmt.Errorf("list note tags: %w", err)
	}
	tagsByNote := make(map[string][]string, len(models))
	for _, t := range tagModels {
		tagsByNote[t.NoteID] = append(tagsByNote[t.NoteID], t.Tag)
	}

	res := make([]domain.Note, 0, len(models))
	for _, m := range models {
		var meta noteMeta
		_ = json.Unmarshal(m.Meta, &meta)
		res = append(res, domain.Note{
			ID:        m.ID,
			OwnerID:   m.OwnerID,
			Title:     m.Title,
			Tags:      domain.NormalizeTags(tagsByNote[m.ID]),
			Content:   m.Content,
			AssetURL:  m.AssetURL,
			Provider:  meta.Provider,
			CreatedAt: m.CreatedAt,
		})
	}
	return res, nil
}

// GetUserLanguage returns the stored language preference, if any.
func (s *GormStore) GetUserLanguage(ownerID string) (domain.Language, bool, error) {
	var model UserSettingModel
	err := s.db.First(&model, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get user language: %w", err)
	}
	return domain.Language(model.Language), true, nil
}

// SetUserLanguage upserts the language preference.
func (s *GormStore) SetUserLanguage(ownerID string, lang domain.Language) error {
	model := UserSettingModel{
		OwnerID:   ownerID,
		Language:  string(lang),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.db.Save(&model).Error; err != nil {
		return fmt.Errorf("set user language: %w", err)
	}
	return nil
}
