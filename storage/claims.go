package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/kosuvorov/WallPay/models"
)

// ClaimLedger is the Postgres-backed reward ledger. The reward_claims table
// carries a unique index on (device_id, wallpaper_id); with GORM error
// translation enabled, a duplicate insert surfaces as gorm.ErrDuplicatedKey.
type ClaimLedger struct {
	DB *gorm.DB
}

func NewClaimLedger(db *gorm.DB) *ClaimLedger {
	return &ClaimLedger{DB: db}
}

func (l *ClaimLedger) Exists(ctx context.Context, deviceID, wallpaperID string) (bool, error) {
	var count int64
	err := l.DB.WithContext(ctx).
		Model(&models.RewardClaim{}).
		Where("device_id = ? AND wallpaper_id = ?", deviceID, wallpaperID).
		Count(&count).Error
	return count > 0, err
}

func (l *ClaimLedger) Insert(ctx context.Context, claim *models.RewardClaim) error {
	return l.DB.WithContext(ctx).Create(claim).Error
}

func (l *ClaimLedger) TotalCoins(ctx context.Context, deviceID string) (int, error) {
	var total int
	err := l.DB.WithContext(ctx).
		Model(&models.RewardClaim{}).
		Where("device_id = ?", deviceID).
		Select("COALESCE(SUM(coins), 0)").
		Scan(&total).Error
	return total, err
}

func (l *ClaimLedger) History(ctx context.Context, deviceID string, limit int) ([]models.ClaimHistoryEntry, error) {
	var entries []models.ClaimHistoryEntry
	err := l.DB.WithContext(ctx).Raw(`
		SELECT rc.id, rc.device_id, rc.wallpaper_id, rc.coins, rc.created_at,
		       w.original_name AS wallpaper_name
		FROM reward_claims rc
		LEFT JOIN wallpapers w ON w.id = rc.wallpaper_id
		WHERE rc.device_id = ?
		ORDER BY rc.created_at DESC
		LIMIT ?
	`, deviceID, limit).Scan(&entries).Error
	return entries, err
}
