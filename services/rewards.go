package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kosuvorov/WallPay/models"
)

// HistoryLimit caps how many claims the history endpoint returns.
const HistoryLimit = 50

// ClaimResult is the outcome of a claim attempt. A repeat claim is not an
// error: it reports AlreadyClaimed with zero coins earned and the unchanged
// device total.
type ClaimResult struct {
	AlreadyClaimed bool
	CoinsEarned    int
	TotalCoins     int
}

// RewardInfo is a device's total balance plus its most recent claims.
type RewardInfo struct {
	DeviceID   string
	TotalCoins int
	History    []models.ClaimHistoryEntry
}

// RewardService grants each wallpaper's coin value at most once per device.
type RewardService struct {
	Ledger     ClaimLedger
	Wallpapers WallpaperStore
}

func NewRewardService(ledger ClaimLedger, wallpapers WallpaperStore) *RewardService {
	return &RewardService{Ledger: ledger, Wallpapers: wallpapers}
}

// Claim grants the wallpaper's current coin value to the device, exactly once
// per (device, wallpaper) pair. The existence check is only a fast path; the
// ledger's unique constraint is the source of truth, so a duplicate insert
// from a concurrent retry comes back as gorm.ErrDuplicatedKey and is folded
// into the AlreadyClaimed response.
func (s *RewardService) Claim(ctx context.Context, deviceID, wallpaperID string) (*ClaimResult, error) {
	wallpaper, err := s.Wallpapers.GetByID(ctx, wallpaperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wallpaper %s: %w", wallpaperID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch wallpaper: %w", err)
	}

	claimed, err := s.Ledger.Exists(ctx, deviceID, wallpaperID)
	if err != nil {
		return nil, fmt.Errorf("check existing claim: %w", err)
	}

	if !claimed {
		claim := &models.RewardClaim{
			DeviceID:    deviceID,
			WallpaperID: wallpaperID,
			Coins:       wallpaper.Coins,
		}
		err := s.Ledger.Insert(ctx, claim)
		switch {
		case err == nil:
			total, err := s.Ledger.TotalCoins(ctx, deviceID)
			if err != nil {
				return nil, fmt.Errorf("sum coins: %w", err)
			}
			return &ClaimResult{CoinsEarned: wallpaper.Coins, TotalCoins: total}, nil
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// Lost the race to an identical concurrent claim; treat it
			// exactly like an ordinary repeat.
		default:
			return nil, fmt.Errorf("insert claim: %w", err)
		}
	}

	total, err := s.Ledger.TotalCoins(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("sum coins: %w", err)
	}
	return &ClaimResult{AlreadyClaimed: true, TotalCoins: total}, nil
}

// History returns the device's balance and its most recent claims, newest
// first, each joined with the wallpaper's display name. An unknown device is
// not an error: it simply has a zero balance and no history.
func (s *RewardService) History(ctx context.Context, deviceID string) (*RewardInfo, error) {
	total, err := s.Ledger.TotalCoins(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("sum coins: %w", err)
	}
	entries, err := s.Ledger.History(ctx, deviceID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return &RewardInfo{DeviceID: deviceID, TotalCoins: total, History: entries}, nil
}
