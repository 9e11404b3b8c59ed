package codec

import (
	"bytes"
	"encoding/gob"
)

// Gob encodes values with the standard library's gob codec. Grounded on
// the same push/pull byte-envelope shape HashiCorp's memberlist uses for
// its cluster state exchange.
type Gob struct{}

func (Gob) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Gob) Decode(b []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(b)).Decode(v)
}
