package models

import "encoding/json"

type Profile struct {
	ID         string  `json:"_id"`
	Name       string  `json:"name"`
	Bio        string  `json:"bio,omitempty"`
	BirthDate  string  `json:"birth_date,omitempty"`
	Gender     int     `json:"gender,omitempty"`
	DistanceMi int     `json:"distance_mi,omitempty"`
	PingTime   string  `json:"ping_time"`
	Photos     []Photo `json:"photos"`
}

type Photo struct {
	ID       string `json:"id,omitempty"`
	URL      string `json:"url"`
	FileName string `json:"fileName,omitempty"`
	Main     Flag   `json:"main,omitempty"`
}

type Match struct {
	ID       string    `json:"_id"`
	Person   Profile   `json:"person"`
	Messages []Message `json:"messages"`
}

type Message struct {
	ID       string `json:"_id"`
	MatchID  string `json:"match_id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Message  string `json:"message"`
	SentDate string `json:"sent_date"`
}

type Updates struct {
	Matches []Match  `json:"matches"`
	Blocks  []string `json:"blocks"`
}

type LikeResponse struct {
	Match            Flag   `json:"match"`
	LikesRemaining   int    `json:"likes_remaining"`
	RateLimitedUntil *int64 `json:"rate_limited_until,omitempty"`

	// RateLimited is set when the response carries a rate_limited_until key,
	// whatever its value.
	RateLimited bool `json:"-"`
}

func (r *LikeResponse) UnmarshalJSON(data []byte) error {
	type plain LikeResponse
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, v.RateLimited = keys["rate_limited_until"]
	*r = LikeResponse(v)
	return nil
}

// Session is the authenticated identity returned by the auth endpoint.
type Session struct {
	Token  string
	UserID string
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

type RecsResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message,omitempty"`
	Results []Profile `json:"results"`
}

type UserResponse struct {
	Status  int     `json:"status"`
	Results Profile `json:"results"`
}
