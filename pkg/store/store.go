package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"tinderbot/pkg/errors"
	"tinderbot/pkg/logger"
	"tinderbot/pkg/models"
)

const (
	profileFile = "profile.json"
	photosDir   = "photos"
	indexDir    = "index"
	matchesDir  = "matches"
	likesFile   = "likes.json"
)

// PhotoFetcher downloads photo bytes. *tinder.Client satisfies it.
type PhotoFetcher interface {
	DownloadPhoto(ctx context.Context, url string) ([]byte, error)
}

// Store is the in-memory view of the on-disk profile mirror
type Store struct {
	root    string
	fetcher PhotoFetcher
	logger  logger.Logger

	mu       sync.RWMutex
	profiles map[string]models.Profile
	likes    map[string]struct{}
}

// LoadResult reports what Load read from disk
type LoadResult struct {
	Profiles  int
	Likes     int
	Cancelled bool
}

// Open creates a Store rooted at root. Nothing is read until Load is called
// and nothing is created until the first write.
func Open(root string, fetcher PhotoFetcher, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.NewLocalStoreError("invalid store root "+root, err)
	}
	return &Store{
		root:     abs,
		fetcher:  fetcher,
		logger:   log.WithField("store", abs),
		profiles: make(map[string]models.Profile),
		likes:    make(map[string]struct{}),
	}, nil
}

// Root returns the absolute store root
func (s *Store) Root() string { return s.root }

// IndexDir returns the directory of primary photo links for all profiles
func (s *Store) IndexDir() string { return filepath.Join(s.root, indexDir) }

// MatchesDir returns the directory of primary photo links for matches
func (s *Store) MatchesDir() string { return filepath.Join(s.root, matchesDir) }

// ProfileDir returns the directory a profile is stored in
func (s *Store) ProfileDir(p *models.Profile) string {
	return filepath.Join(s.root, p.DirName())
}

// Load reads every {dir}/profile.json under the root, then likes.json.
// A missing root leaves the store empty. Subdirectories without a
// profile.json are skipped, as are unreadable profiles. When two directories
// hold the same id the copy with the later ping_time is kept.
func (s *Store) Load(ctx context.Context) (LoadResult, error) {
	var result LoadResult

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Store does not exist yet, starting empty")
			return result, nil
		}
		return result, errors.NewLocalStoreError("failed to list store", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}
		if !entry.IsDir() {
			continue
		}

		var p models.Profile
		path := filepath.Join(s.root, entry.Name(), profileFile)
		ok, err := readJSON(path, &p)
		if err != nil {
			s.logger.WithError(err).WarnWithFields("Skipping unreadable profile", map[string]interface{}{
				"path": path,
			})
			continue
		}
		if !ok || p.ID == "" {
			continue
		}

		if prev, dup := s.profiles[p.ID]; dup {
			if !newer(&p, &prev) {
				s.logger.WarnWithFields("Skipping stale profile copy", map[string]interface{}{
					"profile_id": p.ID,
					"path":       path,
				})
				continue
			}
			s.logger.WarnWithFields("Replacing stale profile copy", map[string]interface{}{
				"profile_id": p.ID,
				"path":       path,
			})
			result.Profiles--
		}

		s.profiles[p.ID] = p
		result.Profiles++
		s.logger.DebugWithFields("Profile loaded", map[string]interface{}{
			"profile_id": p.ID,
			"name":       p.Name,
		})
	}

	if !result.Cancelled {
		n, err := s.loadLikes()
		if err != nil {
			return result, err
		}
		result.Likes = n
	}

	s.logger.InfoWithFields("Store loaded", map[string]interface{}{
		"profiles":  result.Profiles,
		"likes":     result.Likes,
		"cancelled": result.Cancelled,
	})
	return result, nil
}

// newer reports whether a has a later ping_time than b. A copy with an
// unparseable ping_time loses to one that parses.
func newer(a, b *models.Profile) bool {
	at, aErr := a.PingTimeValue()
	bt, bErr := b.PingTimeValue()
	switch {
	case aErr != nil:
		return false
	case bErr != nil:
		return true
	default:
		return at.After(bt)
	}
}

// Profile returns the stored profile for id
func (s *Store) Profile(id string) (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	return p, ok
}

// Profiles returns every stored profile ordered by id
func (s *Store) Profiles() []models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of stored profiles
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}
