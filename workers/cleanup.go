package workers

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// catalog is the slice of the wallpaper store the sweeper needs: which blob
// keys are still referenced.
type catalog interface {
	Filenames(ctx context.Context) ([]string, error)
}

// OrphanSweeper removes blobs from the local upload directory that no catalog
// row references anymore. Deletion of a wallpaper only best-effort-removes its
// blob, so orphans can accumulate after transient disk errors; this is the
// janitor that picks them up. Files younger than Grace are left alone in case
// an upload is still in flight.
type OrphanSweeper struct {
	Catalog catalog
	Dir     string
	Grace   time.Duration
}

func NewOrphanSweeper(cat catalog, dir string, grace time.Duration) *OrphanSweeper {
	return &OrphanSweeper{Catalog: cat, Dir: dir, Grace: grace}
}

// Start runs Sweep on the given interval until ctx is cancelled.
func (s *OrphanSweeper) Start(ctx context.Context, interval time.Duration) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[Sweeper] failed to create scheduler: %v", err)
		return
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			removed, err := s.Sweep(ctx)
			if err != nil {
				log.Printf("[Sweeper] sweep failed: %v", err)
				return
			}
			if removed > 0 {
				log.Printf("[Sweeper] removed %d orphaned blob(s)", removed)
			}
		}),
	)
	if err != nil {
		log.Printf("[Sweeper] failed to schedule job: %v", err)
		return
	}

	sched.Start()

	go func() {
		<-ctx.Done()
		if err := sched.Shutdown(); err != nil {
			log.Printf("[Sweeper] shutdown: %v", err)
		}
	}()
}

// Sweep does one pass over the upload directory and returns how many orphans
// it removed.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	filenames, err := s.Catalog.Filenames(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]bool, len(filenames))
	for _, name := range filenames {
		referenced[name] = true
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < s.Grace {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, entry.Name())); err != nil {
			log.Printf("[Sweeper] failed to remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
