// Package store holds the typed queries shared by the services and the per-request
// profile loader.
package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ProfileLoader memoises profile lookups for the lifetime of one request and
// collapses concurrent identical lookups into a single query.
type ProfileLoader struct {
	db    *gorm.DB
	group singleflight.Group

	mu    sync.Mutex
	cache map[uint]models.Profile
	seen  map[uint]struct{}
	// queries counts round trips to the database
	queries int
}

// NewProfileLoader returns an empty loader bound to db
func NewProfileLoader(db *gorm.DB) *ProfileLoader {
	return &ProfileLoader{db: db, cache: map[uint]models.Profile{}, seen: map[uint]struct{}{}}
}

// Load returns the profiles of ids that exist. Ids already asked for, found or
// not, are served from memory.
func (l *ProfileLoader) Load(ctx context.Context, ids []uint) (map[uint]models.Profile, error) {
	ids = lo.Uniq(ids)

	l.mu.Lock()
	missing := lo.Filter(ids, func(id uint, _ int) bool {
		_, ok := l.seen[id]
		return !ok
	})
	l.mu.Unlock()

	if len(missing) > 0 {
		if err := l.fetch(ctx, missing); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[uint]models.Profile, len(ids))
	for _, id := range ids {
		if p, ok := l.cache[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// Queries reports how many database round trips the loader has made
func (l *ProfileLoader) Queries() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queries
}

func (l *ProfileLoader) fetch(ctx context.Context, ids []uint) error {
	key := batchKey(ids)
	_, err, _ := l.group.Do(key, func() (any, error) {
		var profiles []models.Profile
		if err := l.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
			return nil, err
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		l.queries++
		for _, id := range ids {
			l.seen[id] = struct{}{}
		}
		for _, p := range profiles {
			l.cache[p.ID] = p
		}
		return nil, nil
	})
	return err
}

func batchKey(ids []uint) string {
	b := make([]byte, 0, len(ids)*4)
	for i, id := range ids {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendUint(b, uint64(id), 10)
	}
	return string(b)
}
