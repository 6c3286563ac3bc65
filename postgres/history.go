package postgres

import (
	"context"
	"encoding/json"

	"github.com/xy-planning-network/junction/route"
	"github.com/xy-planning-network/junction/stack"
	"gorm.io/gorm"
)

var _ stack.Store = HistoryStore{}

type navigationEntry struct {
	ID          uint
	HistoryKey  string
	Position    int
	Name        string
	RouteMethod string
	URI         string
	Parameters  string
}

func (navigationEntry) TableName() string { return "navigation_entries" }

// A HistoryStore keeps navigation history in PostgreSQL,
// one row per entry in the navigation_entries table.
//
// Run Migrations before using a HistoryStore.
type HistoryStore struct {
	db *gorm.DB
}

// NewHistoryStore constructs a HistoryStore over db.
func NewHistoryStore(db *gorm.DB) HistoryStore { return HistoryStore{db: db} }

// Load reads the history saved under key, oldest first.
func (s HistoryStore) Load(ctx context.Context, key string) ([]stack.Entry, error) {
	var rows []navigationEntry
	err := s.db.WithContext(ctx).
		Where("history_key = ?", key).
		Order("position").
		Find(&rows).
		Error
	if err != nil {
		return nil, wrap(err, "loading %s", key)
	}

	entries := make([]stack.Entry, 0, len(rows))
	for _, row := range rows {
		params := route.Parameters{}
		if err := json.Unmarshal([]byte(row.Parameters), &params); err != nil {
			return nil, wrap(err, "decoding %s entry %d", key, row.Position)
		}

		entries = append(entries, stack.Entry{
			Name:        row.Name,
			RouteMethod: route.Method(row.RouteMethod),
			URI:         row.URI,
			Parameters:  params,
		})
	}

	return entries, nil
}

// Save overwrites the history saved under key in a single transaction.
func (s HistoryStore) Save(ctx context.Context, key string, entries []stack.Entry) error {
	rows := make([]navigationEntry, len(entries))
	for i, e := range entries {
		params := e.Parameters
		if params == nil {
			params = route.Parameters{}
		}

		b, err := json.Marshal(params)
		if err != nil {
			return wrap(err, "encoding %s entry %d", key, i)
		}

		rows[i] = navigationEntry{
			HistoryKey:  key,
			Position:    i,
			Name:        e.Name,
			RouteMethod: e.RouteMethod.String(),
			URI:         e.URI,
			Parameters:  string(b),
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("history_key = ?", key).Delete(new(navigationEntry)).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})

	return wrap(err, "saving %s", key)
}
