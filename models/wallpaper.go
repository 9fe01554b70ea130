package models

import "time"

// Wallpaper is one catalog entry. Filename is the blob-storage key for the
// underlying image and never changes once set; the public image URL is derived
// from it at the API boundary and is not persisted.
type Wallpaper struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Filename     string    `json:"filename" gorm:"not null"`
	OriginalName string    `json:"original_name"`
	Coins        int       `json:"coins" gorm:"not null;default:10"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
}
