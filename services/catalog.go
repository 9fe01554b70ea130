package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/kosuvorov/WallPay/models"
)

// DefaultCoins is the reward value assigned when an upload specifies none.
const DefaultCoins = 10

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

var imageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
}

// CatalogService owns wallpaper metadata and the image blobs behind it.
type CatalogService struct {
	Store WallpaperStore
	Blobs BlobStore
}

func NewCatalogService(store WallpaperStore, blobs BlobStore) *CatalogService {
	return &CatalogService{Store: store, Blobs: blobs}
}

// ListActive returns the wallpapers visible to the mobile client, newest first.
func (s *CatalogService) ListActive(ctx context.Context) ([]models.Wallpaper, error) {
	return s.Store.ListActive(ctx)
}

// ListAll returns every wallpaper regardless of visibility, newest first.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Wallpaper, error) {
	return s.Store.ListAll(ctx)
}

// Create stores the uploaded image and its catalog row. The file must look
// like an image (by extension or declared content type) before anything is
// written. Coins values <= 0 fall back to DefaultCoins; new wallpapers start
// active.
func (s *CatalogService) Create(ctx context.Context, file *multipart.FileHeader, coins int) (*models.Wallpaper, error) {
	if file == nil || file.Size == 0 {
		return nil, fmt.Errorf("%w: no image file provided", ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	mimeType := strings.ToLower(file.Header.Get("Content-Type"))
	if !imageExts[ext] && !imageMIMETypes[mimeType] {
		return nil, fmt.Errorf("%w: only image files are allowed", ErrInvalidInput)
	}

	if coins <= 0 {
		coins = DefaultCoins
	}

	key := blobKey(file.Filename)
	if err := s.Blobs.Save(ctx, key, file); err != nil {
		return nil, fmt.Errorf("save image blob: %w", err)
	}

	wallpaper := &models.Wallpaper{
		ID:           uuid.NewString(),
		Filename:     key,
		OriginalName: file.Filename,
		Coins:        coins,
		IsActive:     true,
	}
	if err := s.Store.Create(ctx, wallpaper); err != nil {
		// The row never existed, so the blob must not survive either.
		if derr := s.Blobs.Delete(ctx, key); derr != nil {
			log.Printf("failed to remove blob %s after insert error: %v", key, derr)
		}
		return nil, fmt.Errorf("create wallpaper: %w", err)
	}
	return wallpaper, nil
}

// Update applies a partial edit: nil fields keep their current value.
func (s *CatalogService) Update(ctx context.Context, id string, coins *int, isActive *bool) (*models.Wallpaper, error) {
	wallpaper, err := s.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wallpaper %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch wallpaper: %w", err)
	}

	if coins != nil {
		if *coins <= 0 {
			return nil, fmt.Errorf("%w: coins must be a positive integer", ErrInvalidInput)
		}
		wallpaper.Coins = *coins
	}
	if isActive != nil {
		wallpaper.IsActive = *isActive
	}

	if err := s.Store.Update(ctx, wallpaper); err != nil {
		return nil, fmt.Errorf("update wallpaper: %w", err)
	}
	return wallpaper, nil
}

// Delete removes the catalog row and then the blob. Blob removal is best
// effort: a missing or unreachable blob never blocks the metadata delete, it
// just leaves an orphan for the sweeper.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	wallpaper, err := s.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("wallpaper %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("fetch wallpaper: %w", err)
	}

	if err := s.Store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete wallpaper: %w", err)
	}

	if err := s.Blobs.Delete(ctx, wallpaper.Filename); err != nil {
		log.Printf("failed to remove blob %s for deleted wallpaper %s: %v", wallpaper.Filename, id, err)
	}
	return nil
}

// ImageURL derives the public URL for a wallpaper's image. Never persisted.
func (s *CatalogService) ImageURL(w *models.Wallpaper) string {
	return s.Blobs.URL(w.Filename)
}

// blobKey builds a fresh storage key: a uuid plus a slug of the uploaded
// file's base name, keeping the original extension.
func blobKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	if name := slug.Make(base); name != "" {
		return uuid.NewString() + "-" + name + ext
	}
	return uuid.NewString() + ext
}
