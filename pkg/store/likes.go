package store

import (
	"os"
	"path/filepath"
	"sort"

	"tinderbot/pkg/errors"
)

// RecordLike adds id to the like set and persists the whole set
func (s *Store) RecordLike(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.likes[id]; ok {
		return nil
	}
	s.likes[id] = struct{}{}

	if err := os.MkdirAll(s.root, dirPerm); err != nil {
		delete(s.likes, id)
		return errors.NewLocalStoreError("failed to create store directory", err)
	}
	if err := writeJSONAtomic(filepath.Join(s.root, likesFile), s.sortedLikes()); err != nil {
		delete(s.likes, id)
		return errors.NewLocalStoreError("failed to save likes", err)
	}

	s.logger.DebugWithFields("Like recorded", map[string]interface{}{
		"profile_id": id,
		"likes":      len(s.likes),
	})
	return nil
}

// HasLiked reports whether id was liked before
func (s *Store) HasLiked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.likes[id]
	return ok
}

// Likes returns the liked ids in sorted order
func (s *Store) Likes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLikes()
}

// Unliked returns the ids of stored profiles that have not been liked, sorted
func (s *Store) Unliked() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id := range s.profiles {
		if _, ok := s.likes[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) sortedLikes() []string {
	ids := make([]string, 0, len(s.likes))
	for id := range s.likes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// loadLikes reads likes.json; the caller holds s.mu
func (s *Store) loadLikes() (int, error) {
	var ids []string
	ok, err := readJSON(filepath.Join(s.root, likesFile), &ids)
	if err != nil {
		return 0, errors.NewLocalStoreError("failed to load likes", err)
	}
	if !ok {
		s.logger.Debug("No likes file, starting with no likes")
		return 0, nil
	}
	for _, id := range ids {
		s.likes[id] = struct{}{}
	}
	return len(ids), nil
}
