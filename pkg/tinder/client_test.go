package tinder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinderbot/pkg/config"
	"tinderbot/pkg/errors"
	"tinderbot/pkg/logger"
	"tinderbot/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *logger.TestLogger) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.NewTestLogger()
	cfg := config.DefaultConfig().API
	cfg.BaseURL = server.URL
	return NewClient(cfg, log), log
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestAuthenticate(t *testing.T) {
	var gotBody map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, AuthEndpoint, r.URL.Path)
		assert.Equal(t, "4", r.Header.Get("app_version"))
		assert.Equal(t, "android", r.Header.Get("platform"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Tinder/4.0.9 (iPhone; iOS 8.1.1; Scale/2.00)", r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("x-auth-token"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		writeJSON(w, map[string]interface{}{
			"token": "tok-123",
			"user":  map[string]interface{}{"_id": "me", "name": "Me"},
		})
	})

	sess, err := client.Authenticate(context.Background(), "fb-token", "fb-id")
	require.NoError(t, err)
	assert.Equal(t, models.Session{Token: "tok-123", UserID: "me"}, sess)
	assert.Equal(t, map[string]string{"facebook_token": "fb-token", "facebook_id": "fb-id"}, gotBody)
}

func TestAuthenticateFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   interface{}
	}{
		{name: "server error", status: http.StatusInternalServerError, body: map[string]string{}},
		{name: "unauthorized", status: http.StatusUnauthorized, body: map[string]string{}},
		{name: "missing token", status: http.StatusOK, body: map[string]interface{}{"user": map[string]string{"_id": "me"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				writeJSON(w, tt.body)
			})

			_, err := client.Authenticate(context.Background(), "a", "b")
			require.Error(t, err)
			assert.True(t, errors.IsAuth(err), "got %v", err)
			assert.Equal(t, tt.status, errors.StatusCode(err))
		})
	}
}

func TestWithSessionIsImmutable(t *testing.T) {
	var tokens []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("x-auth-token"))
		writeJSON(w, map[string]interface{}{"_id": "me", "name": "Me"})
	})

	authed := client.WithSession(models.Session{Token: "secret", UserID: "me"})
	ctx := context.Background()

	_, err := authed.FetchProfile(ctx)
	require.NoError(t, err)
	_, err = client.FetchProfile(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"secret", ""}, tokens)
	assert.Empty(t, client.Session().Token)
	assert.Equal(t, "me", authed.Session().UserID)
}

func TestFetchRecommendations(t *testing.T) {
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, RecsEndpoint, r.URL.Path)
		writeJSON(w, map[string]interface{}{
			"status": 200,
			"results": []map[string]interface{}{
				{"_id": "a", "name": "Ana", "ping_time": "2014-12-05T12:00:00.000Z", "photos": []map[string]interface{}{{"url": "http://img/a.jpg", "main": "main"}}},
				{"_id": "b", "name": "Bea", "ping_time": "2014-12-05T13:00:00.000Z"},
			},
		})
	})

	recs, err := client.FetchRecommendations(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Ana", recs[0].Name)
	assert.True(t, bool(recs[0].Photos[0].Main))
	assert.NotEmpty(t, log.GetMessagesByLevel("DEBUG"))
}

func TestFetchRecommendationsOutOfLikes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"results": []map[string]interface{}{{"_id": "x", "name": OutOfLikesName}},
		})
	})

	recs, err := client.FetchRecommendations(context.Background())
	assert.Nil(t, recs)
	assert.True(t, errors.IsRateLimited(err))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusUnauthorized, errors.IsAuth},
		{http.StatusForbidden, errors.IsAuth},
		{http.StatusNotFound, errors.IsRemote},
		{http.StatusTooManyRequests, errors.IsRemote},
		{http.StatusInternalServerError, errors.IsRemote},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.FetchUser(context.Background(), "u1")
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %v", err)
			assert.Equal(t, tt.status, errors.StatusCode(err))
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>nope</html>"))
	})

	_, err := client.FetchUpdates(context.Background(), "")
	assert.True(t, errors.IsRemote(err))
	assert.True(t, log.HasMessage("failed to parse JSON response"))
}

func TestFetchUserAndUpdates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/u1":
			writeJSON(w, map[string]interface{}{"status": 200, "results": map[string]interface{}{"_id": "u1", "name": "Uma"}})
		case UpdatesEndpoint:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "", body["last_activity_date"])
			writeJSON(w, map[string]interface{}{
				"matches": []map[string]interface{}{{"_id": "m1", "person": map[string]interface{}{"_id": "u1", "name": "Uma"}, "messages": []interface{}{}}},
				"blocks":  []string{"z"},
			})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	user, err := client.FetchUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Uma", user.Name)

	updates, err := client.FetchUpdates(ctx, "")
	require.NoError(t, err)
	require.Len(t, updates.Matches, 1)
	assert.Equal(t, "u1", updates.Matches[0].Person.ID)
	assert.Equal(t, []string{"z"}, updates.Blocks)
}

func TestLike(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/like/match":
			writeJSON(w, map[string]interface{}{"match": map[string]string{"_id": "m"}, "likes_remaining": 42})
		case "/like/plain":
			writeJSON(w, map[string]interface{}{"match": false, "likes_remaining": 41})
		case "/like/limited":
			writeJSON(w, map[string]interface{}{"match": false, "likes_remaining": 0, "rate_limited_until": 1418000000000})
		case "/like/limited-null":
			writeJSON(w, map[string]interface{}{"match": false, "likes_remaining": 0, "rate_limited_until": nil})
		}
	})
	ctx := context.Background()

	res, err := client.Like(ctx, "match")
	require.NoError(t, err)
	assert.True(t, bool(res.Match))
	assert.Equal(t, 42, res.LikesRemaining)

	res, err = client.Like(ctx, "plain")
	require.NoError(t, err)
	assert.False(t, bool(res.Match))

	res, err = client.Like(ctx, "limited")
	assert.True(t, errors.IsRateLimited(err))
	require.NotNil(t, res)
	assert.Equal(t, 0, res.LikesRemaining)

	res, err = client.Like(ctx, "limited-null")
	assert.True(t, errors.IsRateLimited(err))
	require.NotNil(t, res)
	assert.Nil(t, res.RateLimitedUntil)
}

func TestSendMessage(t *testing.T) {
	var got map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/matches/m1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, map[string]string{"_id": "msg"})
	})

	require.NoError(t, client.SendMessage(context.Background(), "m1", "Hi Uma! How are you?"))
	assert.Equal(t, "Hi Uma! How are you?", got["message"])
}

func TestDownloadPhoto(t *testing.T) {
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("x-auth-token"))
		if r.URL.Path == "/missing.jpg" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte("jpegdata"))
	}))
	defer images.Close()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	client = client.WithSession(models.Session{Token: "secret"})

	data, err := client.DownloadPhoto(context.Background(), images.URL+"/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegdata"), data)

	_, err = client.DownloadPhoto(context.Background(), images.URL+"/missing.jpg")
	assert.True(t, errors.IsRemote(err))
}

func TestCancelledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchProfile(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, errors.IsRemote(err))
}

func TestHeadersFromConfig(t *testing.T) {
	h := HeadersFromConfig(config.APIConfig{UserAgent: "custom"})
	assert.Equal(t, "custom", h.UserAgent)
	assert.Equal(t, "4", h.AppVersion)

	m := h.Map("tok")
	assert.Equal(t, "tok", m["x-auth-token"])
	assert.NotContains(t, h.Map(""), "x-auth-token")
}
