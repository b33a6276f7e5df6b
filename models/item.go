// models/item.go
package models

import "time"

const ItemTable = "register_items"

// Item is one stock keeping unit. Available is a stored column kept equal to
// Total - Issued on every write; the resync routine repairs it if it drifts.
type Item struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	ImageURL  string    `gorm:"size:500" json:"imageUrl"`
	Total     int       `gorm:"not null;default:0" json:"total"`
	Issued    int       `gorm:"not null;default:0" json:"issued"`
	Available int       `gorm:"not null;default:0" json:"available"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }
