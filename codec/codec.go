// Package codec adapts typed values to opaque byte strings for the
// transport layer. The collectives engine is polymorphic over any
// payload a Codec can encode and decode; it never inspects the bytes
// itself.
package codec

// Codec serializes and deserializes values into the opaque byte strings
// carried as the payload frame of every message. Implementations must
// be deterministic and round-trip-exact.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte, v any) error
}
