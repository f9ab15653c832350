// Package storage defines the key-value persistence adapter used to keep a
// pending task session alive across process restarts, plus two reference
// implementations.
//
// Components:
//   - KV: the adapter interface partner apps back with platform storage
//   - Memory: sync.Map-backed store for tests and ephemeral use
//   - File: single JSON document with atomic rename, for desktop use
package storage
