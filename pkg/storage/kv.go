package storage

// KV is the persistence adapter the partner application backs with its
// platform key-value store (SharedPreferences, NSUserDefaults, a file).
// Only one writer (the handoff manager) ever touches these keys, so no
// transactional guarantee is required of implementations.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}
