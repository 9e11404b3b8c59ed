package collectives

import (
	"errors"
	"testing"

	"github.com/zeromq/collectives/codec"
	"github.com/zeromq/collectives/internal/fakewire"
)

func TestSendRecvRoundTrip(t *testing.T) {
	groups := newFakeGroups(2)

	done := make(chan error, 1)
	go func() {
		done <- sendValue(groups[0], 1, "hello")
	}()

	got, err := recvValue[string](groups[1], 0)
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	if err := <-done; err != nil {
		t.Fatalf("send: %v", err)
	}
}

func TestRecvDecodeError(t *testing.T) {
	hub := fakewire.NewHub(1)
	g := &Group{n: 1, rank: 0, codec: codec.Gob{}, wire: hub.Rank(0), initialized: true}

	if err := hub.Rank(0).SendTo(0, []byte("not a gob stream")); err != nil {
		t.Fatalf("inject payload: %v", err)
	}

	_, err := recvValue[int](g, 0)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
}
