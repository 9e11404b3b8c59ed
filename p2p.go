package collectives

// sendValue encodes v and ships it to dst through the group's wire.
// dst must be a valid, distinct rank.
func sendValue[T any](g *Group, dst int, v T) error {
	if dst < 0 || dst >= g.n || dst == g.rank {
		return &RangeError{Rank: dst, N: g.n}
	}
	b, err := g.codec.Encode(v)
	if err != nil {
		return err
	}
	return g.wire.SendTo(dst, b)
}

// recvValue drains one payload frame from the group's wire and decodes
// it into T. srcHint is advisory only: the underlying socket reveals
// which peer actually sent the message (the identity frame discarded by
// RecvAny), but this implementation does not validate srcHint against
// it: the underlying recv always reads two frames and discards the
// identity regardless of any expected-source argument.
func recvValue[T any](g *Group, srcHint int) (T, error) {
	_ = srcHint

	var zero T
	b, err := g.wire.RecvAny()
	if err != nil {
		return zero, err
	}

	var v T
	if err := g.codec.Decode(b, &v); err != nil {
		return zero, &DecodeError{Rank: g.rank, Err: err}
	}
	return v, nil
}
