package collectives

import "fmt"

// depthFor returns ceil(log2(n)), the number of rounds each tree-based
// collective runs.
func depthFor(n int) int {
	d := 0
	for (1 << d) < n {
		d++
	}
	return d
}

// Broadcast disseminates the value on rank 0 to every other rank using
// recursive halving. On entry, x must point to the datum
// to send on rank 0; its value on every other rank is overwritten with
// the root's value on return.
func Broadcast[T any](g *Group, x *T) error {
	if err := g.requireInitialized(); err != nil {
		return err
	}

	n := g.n
	rank := g.rank
	depth := depthFor(n)
	k := n / 2
	received := false

	for d := 0; d < depth; d++ {
		if k == 0 {
			break
		}
		if rank%(2*k) == 0 {
			dst := rank + k
			if dst < n {
				if err := sendValue(g, dst, *x); err != nil {
					return err
				}
			}
		} else if !received && rank%(2*k) == k {
			v, err := recvValue[T](g, rank-k)
			if err != nil {
				return err
			}
			*x = v
			received = true
		}
		k /= 2
	}

	return nil
}

// Reduce folds each rank's sequence S with f starting from init, then
// combines the per-rank partials up a binomial tree rooted at rank 0.
// f must be associative. A parent combines its children's partials in the
// order their messages arrive, which is not fixed (the source rank of a
// received message is not checked), so the result is deterministic only
// when f is also commutative. Only rank 0's return value is meaningful.
func Reduce[T any](g *Group, init T, f func(T, T) T, seq []T) (T, error) {
	if err := g.requireInitialized(); err != nil {
		return init, err
	}

	local := init
	for _, s := range seq {
		local = f(local, s)
	}

	n := g.n
	rank := g.rank
	depth := depthFor(n)
	mask := 1

	for i := 0; i < depth; i++ {
		if rank&mask == 0 {
			peer := rank | mask
			if peer < n {
				v, err := recvValue[T](g, peer)
				if err != nil {
					return local, err
				}
				local = f(local, v)
			}
		} else {
			parent := rank &^ mask
			if err := sendValue(g, parent, local); err != nil {
				return local, err
			}
			break
		}
		mask <<= 1
	}

	return local, nil
}

// Barrier synchronizes every rank: a broadcast of a sentinel forces one
// full tree-descent, a reduce of a two-element vector forces one full
// tree-ascent, and a final broadcast from rank 0 releases the ranks only
// after rank 0 has collected every partial. No rank returns before every
// rank has entered.
func (g *Group) Barrier() error {
	if err := g.requireInitialized(); err != nil {
		return err
	}

	sentinel := 0
	if err := Broadcast(g, &sentinel); err != nil {
		return err
	}

	vec := [2]int{1, 1}
	if _, err := Reduce(g, [2]int{0, 0}, func(a, b [2]int) [2]int {
		return [2]int{a[0] + b[0], a[1] + b[1]}
	}, []([2]int){vec}); err != nil {
		return err
	}

	release := 0
	return Broadcast(g, &release)
}

// Scatter distributes the N equal-sized blocks of in (len(in) ==
// blockSize*NRanks()) from rank 0 to every rank's out buffer, block b
// going to rank b. Non-root ranks ignore in. Every rank's
// out must already be allocated to length blockSize.
func (g *Group) Scatter(in []byte, blockSize int, out []byte) error {
	if err := g.requireInitialized(); err != nil {
		return err
	}
	if len(out) != blockSize {
		return fmt.Errorf("collectives: scatter: out has length %d, want block size %d", len(out), blockSize)
	}

	n := g.n
	rank := g.rank
	depth := depthFor(n)
	k := n / 2

	var held []byte
	if rank == 0 {
		if len(in) != blockSize*n {
			return fmt.Errorf("collectives: scatter: in has length %d, want %d", len(in), blockSize*n)
		}
		held = append([]byte(nil), in...)
	}

	received := false
	for d := 0; d < depth; d++ {
		if k == 0 {
			break
		}
		if rank%(2*k) == 0 {
			dst := rank + k
			if dst < n {
				subtreeSize := k
				if rem := n - rank - k; rem < subtreeSize {
					subtreeSize = rem
				}
				start := k * blockSize
				end := (k + subtreeSize) * blockSize
				payload := held[start:end]
				if err := g.wire.SendTo(dst, payload); err != nil {
					return err
				}
				held = held[:k*blockSize]
			}
		} else if !received && rank%(2*k) == k {
			buf, err := g.wire.RecvAny()
			if err != nil {
				return err
			}
			held = append([]byte(nil), buf...)
			received = true
		}
		k /= 2
	}

	copy(out, held[:blockSize])
	return nil
}

// Gather concatenates every rank's in (each of length len(in)) into
// root's out, in rank order: block(0) || block(1) || ... || block(N-1)
// Requires NRanks() to be a power of two, enforced at
// New() time. Only rank 0's out is written.
func (g *Group) Gather(in []byte, out []byte) error {
	if err := g.requireInitialized(); err != nil {
		return err
	}

	n := g.n
	rank := g.rank

	if rank == 0 && len(out) != len(in)*n {
		return fmt.Errorf("collectives: gather: out has length %d, want %d", len(out), len(in)*n)
	}

	local := append([]byte(nil), in...)

	mask := 1
	depth := depthFor(n)
	for i := 0; i < depth; i++ {
		if rank&mask == 0 {
			peer := rank | mask
			if peer < n {
				buf, err := g.wire.RecvAny()
				if err != nil {
					return err
				}
				local = append(local, buf...)
			}
		} else {
			parent := rank &^ mask
			if err := g.wire.SendTo(parent, local); err != nil {
				return err
			}
			break
		}
		mask <<= 1
	}

	if rank == 0 {
		copy(out, local)
	}
	return nil
}
