// Package store mirrors profiles to a local directory tree.
//
// Layout under the store root:
//
//	{name}_{id}/profile.json
//	{name}_{id}/photos/{fileName}
//	index/{name}_{id}{ext}     symlink to the profile's primary photo
//	matches/{name}_{id}{ext}   same, for matched profiles
//	likes.json                 sorted list of liked ids
//
// A profile is only rewritten when the incoming ping_time is strictly newer
// than the stored one.
package store
