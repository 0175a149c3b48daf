// Package bot orchestrates a session against the dating API.
//
// Start authenticates once, derives the store root from the user's own
// profile, loads the local store and pulls the current matches. The Bot then
// exposes the batch operations the CLI runs:
//
//   - RequestRecommendations stores the current recommendations
//   - UpdateStore refreshes every stored profile
//   - UpdateMatches stores and indexes every match under matches/
//   - Like and MassiveLike register likes
//   - BroadcastHi greets matches that have no messages yet
//
// Every batch checks its context once per item and returns a Summary with
// Cancelled set when it stopped early.
package bot
