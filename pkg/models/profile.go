package models

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"tinderbot/pkg/errors"
)

// PingTimeLayout is the API timestamp layout once fractional seconds are cut.
const PingTimeLayout = "2006-01-02T15:04:05"

// ParsePingTime parses a ping_time value such as "2014-12-05T12:34:56.789Z".
// Everything from the first "." on is ignored.
func ParsePingTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.NewLocalStoreError("missing ping_time", nil)
	}
	value, _, _ := strings.Cut(raw, ".")
	value = strings.TrimSuffix(value, "Z")
	t, err := time.Parse(PingTimeLayout, value)
	if err != nil {
		return time.Time{}, errors.NewLocalStoreError("unparseable ping_time "+raw, err)
	}
	return t, nil
}

// PingTimeValue parses the profile's ping_time.
func (p *Profile) PingTimeValue() (time.Time, error) {
	return ParsePingTime(p.PingTime)
}

// DirName is the per-profile directory and index link stem, "{name}_{id}".
func (p *Profile) DirName() string {
	return sanitize(p.Name) + "_" + sanitize(p.ID)
}

// PrimaryPhoto picks the photo shown in the index. The list is scanned from
// the end and the first photo flagged main wins; with none flagged the first
// photo is used. Photos without a usable file name are never picked. ok is
// false when no photo qualifies.
func (p *Profile) PrimaryPhoto() (photo Photo, ok bool) {
	for i := len(p.Photos) - 1; i >= 0; i-- {
		if p.Photos[i].Main && p.Photos[i].Filename() != "" {
			return p.Photos[i], true
		}
	}
	for _, ph := range p.Photos {
		if ph.Filename() != "" {
			return ph, true
		}
	}
	return Photo{}, false
}

// Filename returns the stored file name, falling back to the last segment of
// the URL path and then to the photo id. It is empty when none of them gives
// a usable name.
func (ph Photo) Filename() string {
	if name := sanitize(ph.FileName); name != "" {
		return name
	}
	if u, err := url.Parse(ph.URL); err == nil && u.Path != "" {
		if base := path.Base(u.Path); base != "/" {
			if name := sanitize(base); name != "" {
				return name
			}
		}
	}
	if ph.ID != "" {
		return sanitize(ph.ID) + ".jpg"
	}
	return ""
}

// Ext is the file extension of Filename, including the dot.
func (ph Photo) Ext() string {
	return filepath.Ext(ph.Filename())
}

// sanitize makes s safe as a single path element. Names that would refer to
// the current or parent directory come back empty.
func sanitize(s string) string {
	s = strings.NewReplacer("/", "_", "\\", "_").Replace(s)
	if s == "." || s == ".." {
		return ""
	}
	return s
}
