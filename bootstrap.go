package collectives

import (
	"fmt"

	"github.com/zeromq/collectives/transport"
)

// runBootstrap establishes the full mesh and drains every identity-probe
// event, one active rank at a time in rank order. It
// mirrors the literal pseudocode for rendezvous: the single loop
// over peer j has an "I am active" branch (connect outward to everyone
// else, draining my own outbound probe after each connect) and an
// "someone else is active" branch (absorb exactly one probe pair on my
// inbound socket).
func (g *Group) runBootstrap() error {
	n := g.n
	self := g.rank

	for j := 0; j < n; j++ {
		if j == self {
			for k := 0; k < n; k++ {
				if k == self {
					continue
				}
				if err := g.ep.ConnectOutbound(g.addrs[k]); err != nil {
					return &ConnectError{Rank: self, Peer: k, Address: g.addrs[k], Err: err}
				}
				if err := transport.DrainProbe(g.ep.Outbound); err != nil {
					return &ProtocolError{
						Rank:  self,
						Round: k,
						Msg:   fmt.Sprintf("draining connect probe for rank %d: %v", k, err),
					}
				}
			}
		} else {
			if err := transport.DrainProbe(g.ep.Inbound); err != nil {
				return &ProtocolError{
					Rank:  self,
					Round: j,
					Msg:   fmt.Sprintf("draining accept probe during rank %d's turn: %v", j, err),
				}
			}
		}
	}

	return nil
}
