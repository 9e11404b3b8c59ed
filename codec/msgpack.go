package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack encodes values with vmihailenco/msgpack, the same library
// mediocregopher/bonfire uses to marshal its peer wire messages.
type Msgpack struct{}

func (Msgpack) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (Msgpack) Decode(b []byte, v any) error {
	return msgpack.Unmarshal(b, v)
}
