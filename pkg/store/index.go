package store

import (
	"os"
	"path/filepath"
	"strings"

	"tinderbot/pkg/errors"
	"tinderbot/pkg/models"
)

// RefreshIndex points {indexDir}/{name}_{id}{ext} at the profile's primary
// photo inside the store. Any previous link for the profile is removed first,
// so the directory holds at most one link per profile. A profile without
// photos gets no link.
func (s *Store) RefreshIndex(p *models.Profile, indexDir string) error {
	photo, ok := p.PrimaryPhoto()
	if !ok {
		s.logger.WarnWithFields("Cannot index profile without photos", map[string]interface{}{
			"profile_id": p.ID,
			"name":       p.Name,
		})
		return nil
	}

	if err := os.MkdirAll(indexDir, dirPerm); err != nil {
		return errors.NewLocalStoreError("failed to create index directory", err)
	}

	stem := p.DirName()
	if err := removeLinks(indexDir, stem); err != nil {
		return errors.NewLocalStoreError("failed to remove previous index link", err)
	}

	target := filepath.Join(s.ProfileDir(p), photosDir, photo.Filename())
	link := filepath.Join(indexDir, stem+photo.Ext())
	if err := os.Symlink(target, link); err != nil {
		return errors.NewLocalStoreError("failed to create index link", err)
	}

	s.logger.DebugWithFields("Profile indexed", map[string]interface{}{
		"profile_id": p.ID,
		"link":       link,
	})
	return nil
}

// removeLinks deletes every entry in dir named stem or stem plus an
// extension. A missing dir holds nothing to remove.
func removeLinks(dir, stem string) error {
	names, err := linkNames(dir, stem)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// hasLink reports whether dir holds a link for stem
func hasLink(dir, stem string) (bool, error) {
	names, err := linkNames(dir, stem)
	return len(names) > 0, err
}

func linkNames(dir, stem string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if name == stem || strings.TrimSuffix(name, filepath.Ext(name)) == stem {
			names = append(names, name)
		}
	}
	return names, nil
}
