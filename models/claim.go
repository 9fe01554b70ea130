package models

import "time"

// RewardClaim = a device earned a wallpaper's coins by applying it.
// The composite unique index is what makes claims idempotent: a second insert
// for the same (device, wallpaper) pair fails at the database, no matter how
// many request handlers race on it. Coins are captured at claim time so later
// edits to the wallpaper never rewrite history. Rows are append-only and are
// not cascade-deleted with the wallpaper.
type RewardClaim struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	DeviceID    string    `json:"device_id" gorm:"not null;index;uniqueIndex:idx_claims_device_wallpaper"`
	WallpaperID string    `json:"wallpaper_id" gorm:"not null;index;uniqueIndex:idx_claims_device_wallpaper"`
	Coins       int       `json:"coins" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClaimHistoryEntry is the read model for the rewards history endpoint: a
// claim joined with the wallpaper's display name. WallpaperName is nil when
// the wallpaper has since been deleted.
type ClaimHistoryEntry struct {
	ID            uint      `json:"id"`
	DeviceID      string    `json:"device_id"`
	WallpaperID   string    `json:"wallpaper_id"`
	Coins         int       `json:"coins"`
	CreatedAt     time.Time `json:"created_at"`
	WallpaperName *string   `json:"wallpaper_name"`
}
