package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinderbot/pkg/errors"
	"tinderbot/pkg/logger"
	"tinderbot/pkg/models"
)

// fakeFetcher serves photo bytes derived from the URL and records each call
type fakeFetcher struct {
	calls []string
	fail  map[string]error
}

func (f *fakeFetcher) DownloadPhoto(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if err := f.fail[url]; err != nil {
		return nil, err
	}
	return []byte("img:" + url), nil
}

func newTestStore(t *testing.T) (*Store, *fakeFetcher, *logger.TestLogger) {
	t.Helper()
	fetcher := &fakeFetcher{}
	log := logger.NewTestLogger()
	s, err := Open(filepath.Join(t.TempDir(), "Me_1_store"), fetcher, log)
	require.NoError(t, err)
	return s, fetcher, log
}

func photo(name string, main bool) models.Photo {
	return models.Photo{URL: "http://img.test/" + name, FileName: name, Main: models.Flag(main)}
}

func profile(pingTime string, photos ...models.Photo) models.Profile {
	return models.Profile{ID: "abc", Name: "Ana", PingTime: pingTime, Photos: photos}
}

func links(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]string{}
	}
	require.NoError(t, err)

	out := make(map[string]string)
	for _, e := range entries {
		target, err := os.Readlink(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		out[e.Name()] = target
	}
	return out
}

func readProfile(t *testing.T, s *Store, p models.Profile) models.Profile {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(s.ProfileDir(&p), "profile.json"))
	require.NoError(t, err)
	var got models.Profile
	require.NoError(t, json.Unmarshal(data, &got))
	return got
}

func TestUpsertAddsProfile(t *testing.T) {
	s, fetcher, _ := newTestStore(t)
	p := profile("2014-12-05T10:00:00.000Z", photo("a.jpg", false), photo("b.jpg", true))

	outcome, err := s.Upsert(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, Added, outcome)
	assert.Equal(t, 1, s.Len())

	if diff := cmp.Diff(p, readProfile(t, s, p)); diff != "" {
		t.Errorf("profile.json mismatch (-want +got):\n%s", diff)
	}

	for _, name := range []string{"a.jpg", "b.jpg"} {
		data, err := os.ReadFile(filepath.Join(s.Root(), "Ana_abc", "photos", name))
		require.NoError(t, err)
		assert.Equal(t, "img:http://img.test/"+name, string(data))
	}
	assert.Len(t, fetcher.calls, 2)

	assert.Equal(t, map[string]string{
		"Ana_abc.jpg": filepath.Join(s.Root(), "Ana_abc", "photos", "b.jpg"),
	}, links(t, s.IndexDir()))
}

func TestUpsertOlderOrEqualIsNoop(t *testing.T) {
	s, fetcher, _ := newTestStore(t)
	ctx := context.Background()
	original := profile("2014-12-05T10:00:00.000Z", photo("a.jpg", true))
	_, err := s.Upsert(ctx, original)
	require.NoError(t, err)

	for _, ping := range []string{"2014-12-05T09:00:00.000Z", "2014-12-05T10:00:00.999Z"} {
		stale := profile(ping, photo("z.png", true))
		stale.Bio = "changed"

		outcome, err := s.Upsert(ctx, stale)
		require.NoError(t, err)
		assert.Equal(t, Unchanged, outcome, ping)
	}

	stored, _ := s.Profile("abc")
	assert.Equal(t, original, stored)
	assert.Equal(t, original, readProfile(t, s, original))
	assert.Len(t, fetcher.calls, 1)
	assert.Len(t, links(t, s.IndexDir()), 1)
}

func TestUpsertNewerOverwrites(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	_, err := s.Upsert(ctx, profile("2014-12-05T10:00:00.000Z", photo("a.jpg", true)))
	require.NoError(t, err)

	newer := profile("2014-12-06T10:00:00.000Z", photo("b.png", true))
	newer.Bio = "new bio"
	outcome, err := s.Upsert(ctx, newer)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)
	assert.True(t, outcome.Changed())

	stored, _ := s.Profile("abc")
	assert.Equal(t, "new bio", stored.Bio)
	assert.Equal(t, "new bio", readProfile(t, s, newer).Bio)

	assert.Equal(t, map[string]string{
		"Ana_abc.png": filepath.Join(s.Root(), "Ana_abc", "photos", "b.png"),
	}, links(t, s.IndexDir()))
}

func TestUpsertPingTimeErrors(t *testing.T) {
	s, fetcher, _ := newTestStore(t)

	_, err := s.Upsert(context.Background(), profile("", photo("a.jpg", true)))
	assert.True(t, errors.IsLocalStore(err))

	_, err = s.Upsert(context.Background(), profile("not a time"))
	assert.True(t, errors.IsLocalStore(err))

	assert.Zero(t, s.Len())
	assert.Empty(t, fetcher.calls)
	_, statErr := os.Stat(s.Root())
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpsertPhotoFailure(t *testing.T) {
	s, fetcher, _ := newTestStore(t)
	fetcher.fail = map[string]error{
		"http://img.test/a.jpg": errors.NewRemoteError(404, "gone", nil),
	}

	_, err := s.Upsert(context.Background(), profile("2014-12-05T10:00:00.000Z", photo("a.jpg", true)))
	assert.True(t, errors.IsRemote(err))
	assert.Zero(t, s.Len())
}

func TestRefreshIndexPrimaryPhoto(t *testing.T) {
	tests := []struct {
		name   string
		photos []models.Photo
		want   string
	}{
		{
			name:   "last flagged photo wins",
			photos: []models.Photo{photo("a.jpg", false), photo("b.jpg", true), photo("c.jpg", true)},
			want:   "c.jpg",
		},
		{
			name:   "no flagged photo uses the first",
			photos: []models.Photo{photo("a.jpg", false), photo("b.jpg", false)},
			want:   "a.jpg",
		},
		{
			name:   "string main flag",
			photos: []models.Photo{photo("a.jpg", false), {URL: "http://img.test/b.gif", FileName: "b.gif", Main: true}},
			want:   "b.gif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestStore(t)
			p := profile("2014-12-05T10:00:00.000Z", tt.photos...)
			dir := filepath.Join(s.Root(), "custom")

			require.NoError(t, s.RefreshIndex(&p, dir))

			got := links(t, dir)
			require.Len(t, got, 1)
			assert.Equal(t, filepath.Join(s.Root(), "Ana_abc", "photos", tt.want), got["Ana_abc"+filepath.Ext(tt.want)])
		})
	}
}

func TestRefreshIndexNoPhotos(t *testing.T) {
	s, _, log := newTestStore(t)
	p := profile("2014-12-05T10:00:00.000Z")

	require.NoError(t, s.RefreshIndex(&p, s.IndexDir()))
	assert.Empty(t, links(t, s.IndexDir()))
	assert.Len(t, log.GetMessagesByLevel("WARN"), 1)
}

func TestRefreshIndexReplacesLink(t *testing.T) {
	s, _, _ := newTestStore(t)
	dir := s.IndexDir()
	other := models.Profile{ID: "abcd", Name: "Ana", Photos: []models.Photo{photo("o.jpg", true)}}
	require.NoError(t, s.RefreshIndex(&other, dir))

	p := profile("2014-12-05T10:00:00.000Z", photo("a.jpg", true))
	require.NoError(t, s.RefreshIndex(&p, dir))
	require.NoError(t, s.RefreshIndex(&p, dir))

	p.Photos = []models.Photo{photo("b.webp", true)}
	require.NoError(t, s.RefreshIndex(&p, dir))

	got := links(t, dir)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "Ana_abc.webp")
	assert.Contains(t, got, "Ana_abcd.jpg")
}

func TestLikesRoundTrip(t *testing.T) {
	s, _, _ := newTestStore(t)
	for _, id := range []string{"c", "a", "b", "a"} {
		require.NoError(t, s.RecordLike(id))
	}
	assert.True(t, s.HasLiked("a"))
	assert.False(t, s.HasLiked("z"))

	data, err := os.ReadFile(filepath.Join(s.Root(), "likes.json"))
	require.NoError(t, err)
	var onDisk []string
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, []string{"a", "b", "c"}, onDisk)

	reopened, err := Open(s.Root(), nil, logger.NewNopLogger())
	require.NoError(t, err)
	res, err := reopened.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Likes)
	assert.Equal(t, []string{"a", "b", "c"}, reopened.Likes())
}

func TestLoad(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		p := models.Profile{ID: fmt.Sprintf("id%d", i), Name: "P", PingTime: "2014-12-05T10:00:00", Photos: []models.Photo{photo("x.jpg", true)}}
		_, err := s.Upsert(ctx, p)
		require.NoError(t, err)
	}
	require.NoError(t, s.RecordLike("id1"))

	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "stray"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "broken"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "broken", "profile.json"), []byte("{"), 0644))

	reopened, err := Open(s.Root(), nil, logger.NewNopLogger())
	require.NoError(t, err)
	res, err := reopened.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, LoadResult{Profiles: 3, Likes: 1}, res)
	if diff := cmp.Diff(s.Profiles(), reopened.Profiles()); diff != "" {
		t.Errorf("loaded profiles mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"id0", "id2"}, reopened.Unliked())
}

func TestLoadMissingRoot(t *testing.T) {
	s, _, _ := newTestStore(t)
	res, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadResult{}, res)
	assert.Zero(t, s.Len())
}

func TestLoadCancelled(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, err := s.Upsert(context.Background(), profile("2014-12-05T10:00:00"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reopened, err := Open(s.Root(), nil, logger.NewNopLogger())
	require.NoError(t, err)
	res, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Zero(t, reopened.Len())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "updated", Updated.String())
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.False(t, Unchanged.Changed())
}

func TestUpsertRenamedProfile(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	before := profile("2014-12-05T10:00:00.000Z", photo("a.jpg", true))
	before.Name = "Zoe"
	_, err := s.Upsert(ctx, before)
	require.NoError(t, err)
	require.NoError(t, s.RefreshIndex(&before, s.MatchesDir()))

	after := profile("2014-12-06T10:00:00.000Z", photo("b.jpg", true))
	after.Bio = "renamed"
	outcome, err := s.Upsert(ctx, after)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	want := map[string]string{
		"Ana_abc.jpg": filepath.Join(s.Root(), "Ana_abc", "photos", "b.jpg"),
	}
	assert.Equal(t, want, links(t, s.IndexDir()))
	assert.Equal(t, want, links(t, s.MatchesDir()))
	_, statErr := os.Stat(filepath.Join(s.Root(), "Zoe_abc"))
	assert.True(t, os.IsNotExist(statErr))

	reopened, err := Open(s.Root(), nil, logger.NewNopLogger())
	require.NoError(t, err)
	res, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Profiles)

	stored, ok := reopened.Profile("abc")
	require.True(t, ok)
	assert.Equal(t, after, stored)
}

func TestLoadKeepsNewestDuplicate(t *testing.T) {
	s, _, log := newTestStore(t)
	ctx := context.Background()

	older := profile("2014-12-05T10:00:00.000Z")
	older.Name = "Zoe"
	newer := profile("2014-12-06T10:00:00.000Z")
	newer.Bio = "newest"
	for _, p := range []models.Profile{newer, older} {
		dir := s.ProfileDir(&p)
		require.NoError(t, os.MkdirAll(dir, 0755))
		data, err := json.Marshal(p)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.json"), data, 0644))
	}

	res, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Profiles)

	stored, ok := s.Profile("abc")
	require.True(t, ok)
	assert.Equal(t, "newest", stored.Bio)
	assert.Len(t, log.GetMessagesByLevel("WARN"), 1)
}

func TestUpsertWithoutPhotosHasNoLink(t *testing.T) {
	s, fetcher, _ := newTestStore(t)
	ctx := context.Background()

	p := profile("2014-12-05T10:00:00.000Z")
	p.Photos = []models.Photo{}
	outcome, err := s.Upsert(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, Added, outcome)
	assert.Empty(t, fetcher.calls)
	assert.Empty(t, links(t, s.IndexDir()))

	_, err = s.Upsert(ctx, profile("2014-12-06T10:00:00.000Z", photo("a.jpg", true)))
	require.NoError(t, err)
	assert.Len(t, links(t, s.IndexDir()), 1)
}

func TestUpsertSkipsUnnamedPhoto(t *testing.T) {
	s, fetcher, _ := newTestStore(t)

	p := profile("2014-12-05T10:00:00.000Z", models.Photo{URL: "http://img.test/", Main: true}, models.Photo{FileName: "..", URL: "http://img.test/.."})
	_, err := s.Upsert(context.Background(), p)
	require.NoError(t, err)

	assert.Empty(t, fetcher.calls)
	assert.Empty(t, links(t, s.IndexDir()))
	entries, err := os.ReadDir(filepath.Join(s.Root(), "Ana_abc", "photos"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
