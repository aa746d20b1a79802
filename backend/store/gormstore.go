package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentRecord is the single table backing every collection.
type documentRecord struct {
	Collection string `gorm:"primaryKey;size:64"`
	DocKey     string `gorm:"primaryKey;size:191"`
	Data       datatypes.JSON
	UpdatedAt  time.Time
}

func (documentRecord) TableName() string { return "documents" }

// GormStore implements Store over a relational database, one row per
// document. Merges are read-modify-write serialized by an in-process mutex;
// cross-process reconciliation stays last-write-wins.
type GormStore struct {
	db *gorm.DB

	mu   sync.Mutex
	subs map[string][]*subscription
}

type subscription struct {
	fn func(Document)
}

// NewGormStore migrates the documents table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&documentRecord{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db, subs: map[string][]*subscription{}}, nil
}

func (s *GormStore) Get(ctx context.Context, collection, key string) (Document, error) {
	var rec documentRecord
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_key = ?", collection, key).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get", Collection: collection, Key: key, Err: err}
	}
	doc := Document{}
	if err := json.Unmarshal(rec.Data, &doc); err != nil {
		return nil, &PersistenceError{Op: "get", Collection: collection, Key: key, Err: err}
	}
	return doc, nil
}

func (s *GormStore) MergeSet(ctx context.Context, collection, key string, fields Document) error {
	s.mu.Lock()
	var merged Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc := Document{}
		var rec documentRecord
		err := tx.Where("collection = ? AND doc_key = ?", collection, key).First(&rec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first write creates the document
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(rec.Data, &doc); err != nil {
				return err
			}
		}

		applyFields(doc, fields)
		raw, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		merged = doc
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(&documentRecord{
			Collection: collection,
			DocKey:     key,
			Data:       datatypes.JSON(raw),
			UpdatedAt:  time.Now().UTC(),
		}).Error
	})
	subs := append([]*subscription(nil), s.subs[collection+"/"+key]...)
	s.mu.Unlock()

	if err != nil {
		return &PersistenceError{Op: "merge", Collection: collection, Key: key, Err: err}
	}
	for _, sub := range subs {
		sub.fn(merged)
	}
	return nil
}

func (s *GormStore) Subscribe(collection, key string, fn func(Document)) func() {
	sub := &subscription{fn: fn}
	id := collection + "/" + key
	s.mu.Lock()
	s.subs[id] = append(s.subs[id], sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.subs[id]
		for i, cur := range list {
			if cur == sub {
				s.subs[id] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}
