// Package tinder is a thin request/response client for the dating API.
//
// A Client is immutable once built. Authenticate returns a models.Session and
// WithSession derives a client that sends the session token on every call:
//
//	base := tinder.NewClient(cfg.API, log)
//	sess, err := base.Authenticate(ctx, token, id)
//	api := base.WithSession(sess)
//	recs, err := api.FetchRecommendations(ctx)
//
// Every non-200 response is returned as a *errors.Error. Nothing is retried.
package tinder
