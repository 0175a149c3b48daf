package tinder

import (
	"fmt"
	"net/url"
)

const (
	// DefaultBaseURL is the production API host
	DefaultBaseURL = "https://api.gotinder.com"

	AuthEndpoint    = "/auth"
	ProfileEndpoint = "/profile"
	RecsEndpoint    = "/user/recs"
	UpdatesEndpoint = "/updates"
)

// UserPath is the endpoint for a single user's public profile
func UserPath(id string) string {
	return fmt.Sprintf("/user/%s", url.PathEscape(id))
}

// LikePath is the endpoint that registers a like for id
func LikePath(id string) string {
	return fmt.Sprintf("/like/%s", url.PathEscape(id))
}

// MatchMessagePath is the endpoint for sending a message into a match
func MatchMessagePath(matchID string) string {
	return fmt.Sprintf("/user/matches/%s", url.PathEscape(matchID))
}
