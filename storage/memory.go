package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/kosuvorov/WallPay/models"
)

// MemoryStore is an in-memory catalog store and claim ledger with the same
// contract as the Postgres-backed ones, including the unique-pair guarantee
// on claim inserts. It backs the tests so the services and handlers can be
// exercised without a database.
type MemoryStore struct {
	mu          sync.Mutex
	wallpapers  []models.Wallpaper
	claims      []models.RewardClaim
	nextClaimID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) ListActive(ctx context.Context) ([]models.Wallpaper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Wallpaper
	for _, w := range m.wallpapers {
		if w.IsActive {
			out = append(out, w)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) ListAll(ctx context.Context) ([]models.Wallpaper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Wallpaper, len(m.wallpapers))
	copy(out, m.wallpapers)
	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*models.Wallpaper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallpapers {
		if w.ID == id {
			found := w
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MemoryStore) Create(ctx context.Context, w *models.Wallpaper) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}
	m.wallpapers = append(m.wallpapers, *w)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, w *models.Wallpaper) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.wallpapers {
		if m.wallpapers[i].ID == w.ID {
			m.wallpapers[i] = *w
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.wallpapers {
		if m.wallpapers[i].ID == id {
			m.wallpapers = append(m.wallpapers[:i], m.wallpapers[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *MemoryStore) Filenames(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for _, w := range m.wallpapers {
		names = append(names, w.Filename)
	}
	return names, nil
}

func (m *MemoryStore) Exists(ctx context.Context, deviceID, wallpaperID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claimIndex(deviceID, wallpaperID) >= 0, nil
}

func (m *MemoryStore) Insert(ctx context.Context, claim *models.RewardClaim) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimIndex(claim.DeviceID, claim.WallpaperID) >= 0 {
		return gorm.ErrDuplicatedKey
	}
	m.nextClaimID++
	claim.ID = m.nextClaimID
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now()
	}
	m.claims = append(m.claims, *claim)
	return nil
}

func (m *MemoryStore) TotalCoins(ctx context.Context, deviceID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, c := range m.claims {
		if c.DeviceID == deviceID {
			total += c.Coins
		}
	}
	return total, nil
}

func (m *MemoryStore) History(ctx context.Context, deviceID string, limit int) ([]models.ClaimHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var claims []models.RewardClaim
	for _, c := range m.claims {
		if c.DeviceID == deviceID {
			claims = append(claims, c)
		}
	}
	sort.SliceStable(claims, func(i, j int) bool {
		if !claims[i].CreatedAt.Equal(claims[j].CreatedAt) {
			return claims[i].CreatedAt.After(claims[j].CreatedAt)
		}
		return claims[i].ID > claims[j].ID
	})
	if len(claims) > limit {
		claims = claims[:limit]
	}

	var entries []models.ClaimHistoryEntry
	for _, c := range claims {
		entry := models.ClaimHistoryEntry{
			ID:          c.ID,
			DeviceID:    c.DeviceID,
			WallpaperID: c.WallpaperID,
			Coins:       c.Coins,
			CreatedAt:   c.CreatedAt,
		}
		for _, w := range m.wallpapers {
			if w.ID == c.WallpaperID {
				name := w.OriginalName
				entry.WallpaperName = &name
				break
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// claimIndex must be called with the mutex held.
func (m *MemoryStore) claimIndex(deviceID, wallpaperID string) int {
	for i, c := range m.claims {
		if c.DeviceID == deviceID && c.WallpaperID == wallpaperID {
			return i
		}
	}
	return -1
}

func sortNewestFirst(wallpapers []models.Wallpaper) {
	sort.SliceStable(wallpapers, func(i, j int) bool {
		return wallpapers[i].CreatedAt.After(wallpapers[j].CreatedAt)
	})
}
