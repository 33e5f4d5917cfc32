package store

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Leaf is the database row for one leaf path. The value is stored as JSON
// so the tree round-trips through any gorm dialect (postgres in
// production, sqlite in tests).
type Leaf struct {
	Path  string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// TableName specifies the table name for the Leaf model
func (Leaf) TableName() string {
	return "store_leaves"
}

// GormPersister writes leaf deltas through to a gorm database, one
// transaction per commit.
type GormPersister struct {
	db *gorm.DB
}

// Open migrates the leaf table, loads every persisted leaf, and returns a
// store whose future commits write through to db.
func Open(db *gorm.DB) (*MemoryStore, error) {
	if err := db.AutoMigrate(&Leaf{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store schema: %w", err)
	}

	var rows []Leaf
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load store leaves: %w", err)
	}

	leaves := make(map[string]any, len(rows))
	for _, row := range rows {
		var v any
		if err := json.Unmarshal([]byte(row.Value), &v); err != nil {
			return nil, fmt.Errorf("corrupt leaf %q: %w", row.Path, err)
		}
		leaves[row.Path] = v
	}

	return NewPersistent(&GormPersister{db: db}, leaves), nil
}

// Apply upserts and deletes the commit's leaves inside one transaction.
func (p *GormPersister) Apply(deltas map[string]any) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		var dead []string
		for path, v := range deltas {
			if v == nil {
				dead = append(dead, path)
				continue
			}
			b, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode leaf %q: %w", path, err)
			}
			row := Leaf{Path: path, Value: string(b)}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "path"}},
				DoUpdates: clause.AssignmentColumns([]string{"value"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		if len(dead) > 0 {
			if err := tx.Delete(&Leaf{}, "path IN ?", dead).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
