package services

import (
	"context"
	"mime/multipart"

	"github.com/kosuvorov/WallPay/models"
)

// WallpaperStore persists catalog metadata. Implementations report a missing
// row as gorm.ErrRecordNotFound so the services can map it uniformly.
type WallpaperStore interface {
	ListActive(ctx context.Context) ([]models.Wallpaper, error)
	ListAll(ctx context.Context) ([]models.Wallpaper, error)
	GetByID(ctx context.Context, id string) (*models.Wallpaper, error)
	Create(ctx context.Context, w *models.Wallpaper) error
	Update(ctx context.Context, w *models.Wallpaper) error
	Delete(ctx context.Context, id string) error
}

// ClaimLedger persists reward claims. Insert must fail with
// gorm.ErrDuplicatedKey when a claim for the same (device, wallpaper) pair
// already exists; that failure is the at-most-once guarantee.
type ClaimLedger interface {
	Exists(ctx context.Context, deviceID, wallpaperID string) (bool, error)
	Insert(ctx context.Context, claim *models.RewardClaim) error
	TotalCoins(ctx context.Context, deviceID string) (int, error)
	History(ctx context.Context, deviceID string, limit int) ([]models.ClaimHistoryEntry, error)
}

// BlobStore holds the raw image assets, addressed by the key stored in
// Wallpaper.Filename. Delete is idempotent: removing an absent blob succeeds.
type BlobStore interface {
	Save(ctx context.Context, key string, file *multipart.FileHeader) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
