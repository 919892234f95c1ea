package objects

// Object represents any sit object that can be stored.
// The store keeps no type tag: a reader decides what the bytes mean.
type Object interface {
	// Hash returns the SHA-1 hash of Data
	Hash() string

	// Data returns the exact bytes kept in the store
	Data() []byte
}
