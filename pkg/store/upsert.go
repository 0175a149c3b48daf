package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tinderbot/pkg/errors"
	"tinderbot/pkg/models"
)

// Outcome is the effect an Upsert had on the store
type Outcome int

const (
	Unchanged Outcome = iota
	Added
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// Changed reports whether the profile was written
func (o Outcome) Changed() bool { return o != Unchanged }

// Upsert adds an unknown profile, overwrites a known one whose ping_time is
// strictly newer, and leaves it alone otherwise. Writing a profile saves
// profile.json, downloads every photo and refreshes its index link.
func (s *Store) Upsert(ctx context.Context, p models.Profile) (Outcome, error) {
	log := s.logger.WithFields(map[string]interface{}{
		"profile_id": p.ID,
		"name":       p.Name,
	})

	if p.ID == "" {
		return Unchanged, errors.NewLocalStoreError("profile has no id", nil)
	}
	incoming, err := p.PingTimeValue()
	if err != nil {
		return Unchanged, err
	}

	outcome := Added
	existing, known := s.Profile(p.ID)
	if known {
		saved, err := existing.PingTimeValue()
		if err != nil {
			return Unchanged, err
		}
		if !incoming.After(saved) {
			log.Debug("Profile is up to date")
			return Unchanged, nil
		}
		outcome = Updated
	}

	renamed := known && existing.DirName() != p.DirName()
	var wasMatch bool
	if renamed {
		if wasMatch, err = s.unlink(&existing); err != nil {
			return Unchanged, err
		}
	}

	if err := s.save(ctx, &p); err != nil {
		return Unchanged, err
	}

	s.mu.Lock()
	s.profiles[p.ID] = p
	s.mu.Unlock()

	if renamed {
		if err := s.retire(&existing, &p, wasMatch); err != nil {
			return outcome, err
		}
		log.WithField("previous", existing.DirName()).Info("Profile renamed")
	}

	log.WithField("outcome", outcome.String()).Info("Profile stored")
	return outcome, nil
}

// unlink removes the index and matches links of a profile about to be
// stored under a new name. wasMatch reports whether it had a matches link.
func (s *Store) unlink(old *models.Profile) (wasMatch bool, err error) {
	if err := removeLinks(s.IndexDir(), old.DirName()); err != nil {
		return false, errors.NewLocalStoreError("failed to remove previous index link", err)
	}
	wasMatch, err = hasLink(s.MatchesDir(), old.DirName())
	if err != nil {
		return false, errors.NewLocalStoreError("failed to read matches directory", err)
	}
	if err := removeLinks(s.MatchesDir(), old.DirName()); err != nil {
		return false, errors.NewLocalStoreError("failed to remove previous match link", err)
	}
	return wasMatch, nil
}

// retire deletes the directory of the previous name once the profile has been
// saved under its new one, and moves its matches link across
func (s *Store) retire(old, current *models.Profile, wasMatch bool) error {
	oldDir, newDir := s.ProfileDir(old), s.ProfileDir(current)
	if !sameDir(oldDir, newDir) {
		if err := os.RemoveAll(oldDir); err != nil {
			return errors.NewLocalStoreError("failed to remove previous profile directory", err)
		}
	}
	if wasMatch {
		return s.RefreshIndex(current, s.MatchesDir())
	}
	return nil
}

// sameDir reports whether a and b name the same directory, which happens for
// a change of case on a case-insensitive filesystem
func sameDir(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// save writes profile.json, the photos and the index link
func (s *Store) save(ctx context.Context, p *models.Profile) error {
	dir := s.ProfileDir(p)
	if err := os.MkdirAll(filepath.Join(dir, photosDir), dirPerm); err != nil {
		return errors.NewLocalStoreError("failed to create profile directory", err)
	}

	if err := writeJSONAtomic(filepath.Join(dir, profileFile), p); err != nil {
		return errors.NewLocalStoreError("failed to save profile", err)
	}

	if err := s.savePhotos(ctx, p); err != nil {
		return err
	}

	return s.RefreshIndex(p, s.IndexDir())
}

func (s *Store) savePhotos(ctx context.Context, p *models.Profile) error {
	if s.fetcher == nil {
		return nil
	}
	dir := filepath.Join(s.ProfileDir(p), photosDir)

	for _, photo := range p.Photos {
		name := photo.Filename()
		if name == "" || photo.URL == "" {
			s.logger.WarnWithFields("Skipping photo without url", map[string]interface{}{
				"profile_id": p.ID,
			})
			continue
		}

		data, err := s.fetcher.DownloadPhoto(ctx, photo.URL)
		if err != nil {
			return err
		}
		if err := writeFileAtomic(filepath.Join(dir, name), bytes.NewReader(data)); err != nil {
			return errors.NewLocalStoreError(fmt.Sprintf("failed to save photo %s", name), err)
		}
	}

	s.logger.DebugWithFields("Photos saved", map[string]interface{}{
		"profile_id": p.ID,
		"count":      len(p.Photos),
	})
	return nil
}
