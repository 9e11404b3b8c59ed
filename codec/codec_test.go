package codec

import (
	"reflect"
	"testing"
)

type sample struct {
	A int
	B string
	C []int
}

func TestRoundTrip(t *testing.T) {
	codecs := map[string]Codec{
		"gob":     Gob{},
		"msgpack": Msgpack{},
	}

	in := sample{A: 7, B: "hello", C: []int{1, 2, 3}}

	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			b, err := c.Encode(in)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			var out sample
			if err := c.Decode(b, &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(in, out) {
				t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
			}
		})
	}
}

func TestDecodeErrorIsRecoverable(t *testing.T) {
	var out sample
	if err := (Gob{}).Decode([]byte("not gob data"), &out); err == nil {
		t.Fatalf("expected decode error")
	}
	if err := (Msgpack{}).Decode([]byte{0xff, 0xff, 0xff}, &out); err == nil {
		t.Fatalf("expected decode error")
	}
}
