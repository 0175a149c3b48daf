package tinder

import "tinderbot/pkg/config"

// Headers is the fixed client identity sent with every API request.
type Headers struct {
	AppVersion  string
	ContentType string
	Platform    string
	UserAgent   string
}

// DefaultHeaders returns the identity of the Android app the API expects.
func DefaultHeaders() Headers {
	return Headers{
		AppVersion:  "4",
		ContentType: "application/json",
		Platform:    "android",
		UserAgent:   "Tinder/4.0.9 (iPhone; iOS 8.1.1; Scale/2.00)",
	}
}

// HeadersFromConfig overlays any non-empty configured values onto the defaults.
func HeadersFromConfig(cfg config.APIConfig) Headers {
	h := DefaultHeaders()
	if cfg.AppVersion != "" {
		h.AppVersion = cfg.AppVersion
	}
	if cfg.Platform != "" {
		h.Platform = cfg.Platform
	}
	if cfg.UserAgent != "" {
		h.UserAgent = cfg.UserAgent
	}
	return h
}

// Map renders the headers for a request, adding x-auth-token when token is set.
func (h Headers) Map(token string) map[string]string {
	m := map[string]string{
		"app_version":  h.AppVersion,
		"content-type": h.ContentType,
		"platform":     h.Platform,
		"user-agent":   h.UserAgent,
	}
	if token != "" {
		m["x-auth-token"] = token
	}
	return m
}
