package tinder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"tinderbot/pkg/config"
	"tinderbot/pkg/errors"
	"tinderbot/pkg/logger"
	"tinderbot/pkg/models"
)

// OutOfLikesName is the name of the placeholder recommendation the API
// returns once the like quota is exhausted.
const OutOfLikesName = "Tinder Team"

// Client talks to the dating API
type Client struct {
	http    *resty.Client
	headers Headers
	session models.Session
	logger  logger.Logger
}

// NewClient creates an unauthenticated client for the configured API host
func NewClient(cfg config.APIConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(cfg.Timeout)

	rc.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		logger.LogRequest(log, res.Request.Method, res.Request.URL, res.StatusCode(), res.Time().Milliseconds())
		return nil
	})
	rc.OnError(func(req *resty.Request, err error) {
		log.WithError(err).WarnWithFields("HTTP request failed", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
		})
	})

	return &Client{
		http:    rc,
		headers: HeadersFromConfig(cfg),
		logger:  log,
	}
}

// WithSession returns a copy of the client that authenticates with s.
// The receiver is left unchanged.
func (c *Client) WithSession(s models.Session) *Client {
	clone := *c
	clone.session = s
	return &clone
}

// Session returns the session the client authenticates with, if any
func (c *Client) Session() models.Session {
	return c.session
}

// Headers returns the identity headers sent with every request
func (c *Client) Headers() Headers {
	return c.headers
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeaders(c.headers.Map(c.session.Token))
}

// do sends the request and decodes a 200 response body into target
func (c *Client) do(req *resty.Request, method, path string, target interface{}) error {
	res, err := req.Execute(method, path)
	if err != nil {
		return errors.NewRemoteError(0, fmt.Sprintf("%s %s", method, path), err)
	}

	if err := c.checkResponseStatus(method, path, res); err != nil {
		return err
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(res.Body(), target); err != nil {
		bodyPreview := string(res.Body())
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"path":         path,
			"status":       res.StatusCode(),
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errors.NewRemoteError(res.StatusCode(), "failed to parse response", err)
	}
	return nil
}

// checkResponseStatus maps anything but 200 to a typed error
func (c *Client) checkResponseStatus(method, path string, res *resty.Response) error {
	code := res.StatusCode()
	switch {
	case code == http.StatusOK:
		return nil
	case path == AuthEndpoint:
		return errors.NewAuthError(code, "authentication rejected, the facebook token may be out of date")
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.NewAuthError(code, "session token rejected")
	default:
		return errors.NewRemoteError(code, fmt.Sprintf("%s %s returned %d", method, path, code), nil)
	}
}

// Authenticate exchanges a Facebook token and id for an API session
func (c *Client) Authenticate(ctx context.Context, facebookToken, facebookID string) (models.Session, error) {
	body := map[string]string{
		"facebook_token": facebookToken,
		"facebook_id":    facebookID,
	}

	var res models.AuthResponse
	if err := c.do(c.newRequest(ctx).SetBody(body), http.MethodPost, AuthEndpoint, &res); err != nil {
		return models.Session{}, err
	}
	if res.Token == "" {
		return models.Session{}, errors.NewAuthError(http.StatusOK, "auth response carried no token")
	}

	c.logger.WithField("user_id", res.User.ID).Info("Authenticated")
	return models.Session{Token: res.Token, UserID: res.User.ID}, nil
}

// FetchProfile returns the authenticated user's own profile
func (c *Client) FetchProfile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(c.newRequest(ctx), http.MethodGet, ProfileEndpoint, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchRecommendations returns the current batch of candidate profiles.
// The out-of-likes placeholder is reported as a rate limited error.
func (c *Client) FetchRecommendations(ctx context.Context) ([]models.Profile, error) {
	var res models.RecsResponse
	if err := c.do(c.newRequest(ctx), http.MethodGet, RecsEndpoint, &res); err != nil {
		return nil, err
	}
	if len(res.Results) > 0 && res.Results[0].Name == OutOfLikesName {
		return nil, errors.NewRateLimitedError("out of likes")
	}
	return res.Results, nil
}

// FetchUser returns the current public profile of id
func (c *Client) FetchUser(ctx context.Context, id string) (*models.Profile, error) {
	var res models.UserResponse
	if err := c.do(c.newRequest(ctx), http.MethodGet, UserPath(id), &res); err != nil {
		return nil, err
	}
	return &res.Results, nil
}

// FetchUpdates returns matches and blocks changed since lastActivity.
// An empty lastActivity asks for everything.
func (c *Client) FetchUpdates(ctx context.Context, lastActivity string) (*models.Updates, error) {
	body := map[string]string{"last_activity_date": lastActivity}

	var res models.Updates
	if err := c.do(c.newRequest(ctx).SetBody(body), http.MethodPost, UpdatesEndpoint, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Like registers a like for id. A response carrying rate_limited_until is
// returned alongside a rate limited error.
func (c *Client) Like(ctx context.Context, id string) (*models.LikeResponse, error) {
	var res models.LikeResponse
	if err := c.do(c.newRequest(ctx), http.MethodGet, LikePath(id), &res); err != nil {
		return nil, err
	}
	if res.RateLimited {
		if res.RateLimitedUntil == nil {
			return &res, errors.NewRateLimitedError("rate limited")
		}
		return &res, errors.NewRateLimitedError(fmt.Sprintf("rate limited until %d", *res.RateLimitedUntil))
	}
	return &res, nil
}

// SendMessage posts text into the match conversation
func (c *Client) SendMessage(ctx context.Context, matchID, text string) error {
	body := map[string]string{"message": text}
	return c.do(c.newRequest(ctx).SetBody(body), http.MethodPost, MatchMessagePath(matchID), nil)
}

// DownloadPhoto fetches raw image bytes from an absolute photo URL.
// No API headers are sent.
func (c *Client) DownloadPhoto(ctx context.Context, photoURL string) ([]byte, error) {
	res, err := c.http.R().SetContext(ctx).Get(photoURL)
	if err != nil {
		return nil, errors.NewRemoteError(0, "download "+photoURL, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, errors.NewRemoteError(res.StatusCode(), fmt.Sprintf("download %s returned %d", photoURL, res.StatusCode()), nil)
	}
	return res.Body(), nil
}
