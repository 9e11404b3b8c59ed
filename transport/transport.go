// Package transport implements the identity-addressed duplex socket
// pair each rank uses to talk to every other rank: a bound ROUTER
// socket that receives from anyone, and a connected ROUTER socket that
// multiplexes sends to every peer. Both sockets enable libzmq's
// identity-probe behavior, surfacing a one-time two-frame event on
// every newly established connection.
//
// This mirrors the ROUTER<->ROUTER arrangement demonstrated by
// set_probe_router in a reference router_router example.
package transport

import (
	"fmt"
	"strconv"

	zmq "github.com/pebbe/zmq4"
)

// Endpoint is the pair of sockets one rank owns for the lifetime of a
// group.
type Endpoint struct {
	Inbound  *zmq.Socket
	Outbound *zmq.Socket

	identity string
	closed   bool
}

// New creates the inbound and outbound sockets for the given rank
// identity but does not bind or connect them yet.
func New(rank int) (*Endpoint, error) {
	identity := strconv.Itoa(rank)

	inbound, err := zmq.NewSocket(zmq.ROUTER)
	if err != nil {
		return nil, fmt.Errorf("transport: create inbound socket: %w", err)
	}
	if err := inbound.SetIdentity(identity); err != nil {
		inbound.Close()
		return nil, fmt.Errorf("transport: set inbound identity: %w", err)
	}
	if err := inbound.SetProbeRouter(true); err != nil {
		inbound.Close()
		return nil, fmt.Errorf("transport: enable inbound probe: %w", err)
	}

	outbound, err := zmq.NewSocket(zmq.ROUTER)
	if err != nil {
		inbound.Close()
		return nil, fmt.Errorf("transport: create outbound socket: %w", err)
	}
	if err := outbound.SetIdentity(identity); err != nil {
		inbound.Close()
		outbound.Close()
		return nil, fmt.Errorf("transport: set outbound identity: %w", err)
	}
	if err := outbound.SetProbeRouter(true); err != nil {
		inbound.Close()
		outbound.Close()
		return nil, fmt.Errorf("transport: enable outbound probe: %w", err)
	}

	return &Endpoint{Inbound: inbound, Outbound: outbound, identity: identity}, nil
}

// BindInbound attaches the inbound socket to the local address.
func (e *Endpoint) BindInbound(address string) error {
	if err := e.Inbound.Bind("tcp://" + address); err != nil {
		return fmt.Errorf("transport: bind %s: %w", address, err)
	}
	return nil
}

// ConnectOutbound attaches the outbound socket to a remote peer's
// inbound address. Multiple calls accumulate: the outbound socket
// multiplexes across every connected peer.
func (e *Endpoint) ConnectOutbound(address string) error {
	if err := e.Outbound.Connect("tcp://" + address); err != nil {
		return fmt.Errorf("transport: connect %s: %w", address, err)
	}
	return nil
}

// SendTo sends a two-part message (destination identity, payload) on the
// given socket.
func SendTo(sock *zmq.Socket, dstIdentity string, payload []byte) error {
	if _, err := sock.Send(dstIdentity, zmq.SNDMORE); err != nil {
		return fmt.Errorf("transport: send identity frame: %w", err)
	}
	if _, err := sock.SendBytes(payload, 0); err != nil {
		return fmt.Errorf("transport: send payload frame: %w", err)
	}
	return nil
}

// RecvAny receives a two-part message on the given socket, discards the
// sender-identity frame, and returns the payload bytes. It blocks until a
// message is available.
func RecvAny(sock *zmq.Socket) ([]byte, error) {
	frames, err := sock.RecvMessageBytes(0)
	if err != nil {
		return nil, fmt.Errorf("transport: recv: %w", err)
	}
	if len(frames) != 2 {
		return nil, fmt.Errorf("transport: recv: want 2 frames, got %d", len(frames))
	}
	return frames[1], nil
}

// DrainProbe reads the two frames (identity, empty payload) libzmq
// surfaces the first time a ROUTER connection is established, exactly as
// the original implementation's router_router example does with two
// successive single-frame recv_bytes calls.
func DrainProbe(sock *zmq.Socket) error {
	if _, err := sock.RecvBytes(0); err != nil {
		return fmt.Errorf("transport: drain probe identity frame: %w", err)
	}
	if _, err := sock.RecvBytes(0); err != nil {
		return fmt.Errorf("transport: drain probe payload frame: %w", err)
	}
	return nil
}

// Close releases both sockets. It is safe to call more than once.
func (e *Endpoint) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var firstErr error
	if err := e.Inbound.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.Outbound.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
