package kvstore

import "strings"

// All user data lives under "user:{userID}:...". The store trusts the
// caller-supplied user ID; there is no isolation beyond the prefix.

// UserKey builds a namespaced key for a user-scoped document.
func UserKey(userID string, parts ...string) string {
	elems := append([]string{"user", userID}, parts...)
	return strings.Join(elems, ":")
}

// UserPrefix builds a scan prefix for a user-scoped collection. The trailing
// separator keeps "task" from matching "tasks".
func UserPrefix(userID string, parts ...string) string {
	return UserKey(userID, parts...) + ":"
}
