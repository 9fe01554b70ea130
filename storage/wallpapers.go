package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/kosuvorov/WallPay/models"
)

// WallpaperStore is the Postgres-backed catalog store.
type WallpaperStore struct {
	DB *gorm.DB
}

func NewWallpaperStore(db *gorm.DB) *WallpaperStore {
	return &WallpaperStore{DB: db}
}

func (s *WallpaperStore) ListActive(ctx context.Context) ([]models.Wallpaper, error) {
	var wallpapers []models.Wallpaper
	err := s.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&wallpapers).Error
	return wallpapers, err
}

func (s *WallpaperStore) ListAll(ctx context.Context) ([]models.Wallpaper, error) {
	var wallpapers []models.Wallpaper
	err := s.DB.WithContext(ctx).
		Order("created_at DESC").
		Find(&wallpapers).Error
	return wallpapers, err
}

func (s *WallpaperStore) GetByID(ctx context.Context, id string) (*models.Wallpaper, error) {
	var wallpaper models.Wallpaper
	if err := s.DB.WithContext(ctx).First(&wallpaper, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wallpaper, nil
}

func (s *WallpaperStore) Create(ctx context.Context, w *models.Wallpaper) error {
	return s.DB.WithContext(ctx).Create(w).Error
}

func (s *WallpaperStore) Update(ctx context.Context, w *models.Wallpaper) error {
	return s.DB.WithContext(ctx).Save(w).Error
}

func (s *WallpaperStore) Delete(ctx context.Context, id string) error {
	tx := s.DB.WithContext(ctx).Delete(&models.Wallpaper{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Filenames lists every blob key the catalog still references. The orphan
// sweeper diffs this against the upload directory.
func (s *WallpaperStore) Filenames(ctx context.Context) ([]string, error) {
	var filenames []string
	err := s.DB.WithContext(ctx).
		Model(&models.Wallpaper{}).
		Pluck("filename", &filenames).Error
	return filenames, err
}
