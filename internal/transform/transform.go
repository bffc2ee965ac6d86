// Package transform implements the reversible content transformation applied
// to every tracked file and snapshot.
//
// The transformation is a repeating-key XOR. It obscures content on disk but
// provides no confidentiality: the default key is public and XOR with a short
// repeating key is trivially broken. Do not store secrets in a repository and
// expect them to be protected.
package transform

import "errors"

// Key is the repeating key combined with content bytes.
type Key string

// DefaultKey is used when no key is configured.
const DefaultKey Key = "VCS_DEFAULT_KEY_2024"

// ErrEmptyKey is returned when a transformation is requested with an empty key.
var ErrEmptyKey = errors.New("transform key must not be empty")

// Direction names the intent of a transformation. Both directions run the same
// operation since it is its own inverse.
type Direction int

const (
	Encode Direction = iota
	Decode
)

func (d Direction) String() string {
	switch d {
	case Encode:
		return "encode"
	case Decode:
		return "decode"
	default:
		return "unknown"
	}
}

// Apply combines each byte of data with the corresponding byte of key,
// cycling the key over the input. It returns a new slice and never modifies
// data. Applying it twice with the same key yields the original bytes.
func Apply(data []byte, key Key) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	out := make([]byte, len(data))
	n := len(key)
	for i, b := range data {
		out[i] = b ^ key[i%n]
	}
	return out, nil
}

// Run applies the transformation for the given direction.
func Run(data []byte, key Key, dir Direction) ([]byte, error) {
	switch dir {
	case Encode, Decode:
		return Apply(data, key)
	default:
		return nil, errors.New("transform: unknown direction")
	}
}
