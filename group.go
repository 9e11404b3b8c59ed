package collectives

import (
	"strconv"

	"github.com/zeromq/collectives/codec"
	"github.com/zeromq/collectives/config"
	"github.com/zeromq/collectives/transport"

	log "github.com/sirupsen/logrus"
)

// logger is the package-level logger Initialize writes through (bind
// failure, bootstrap failure, bootstrap completion). It defaults to
// logrus's standard logger; override it with SetLogger, e.g. to redirect
// output or change level.
var logger = log.StandardLogger()

// SetLogger replaces the logger used for Initialize's bind and bootstrap
// diagnostics. The collectives and per-message send/recv never log,
// regardless of level; their failures are only returned as errors.
func SetLogger(l *log.Logger) {
	logger = l
}

// Group owns the transport sockets and codec for one rank in a fixed-size
// process group. It exclusively owns both
// sockets and the messaging context; collectives borrow the Group for the
// duration of each call and never retain state across calls.
type Group struct {
	n     int
	rank  int
	addrs []string

	codec codec.Codec
	ep    *transport.Endpoint
	wire  wireIO

	initialized bool
}

// wireIO is the minimal point-to-point abstraction the collective
// algorithms in collectives.go run against. A Group built by New holds a
// transportWire, backed by real ZeroMQ sockets; unit
// tests satisfy it through internal/fakewire, an in-memory double built
// from buffered channels.
type wireIO interface {
	SendTo(dst int, payload []byte) error
	RecvAny() ([]byte, error)
}

// transportWire adapts an *transport.Endpoint to wireIO.
type transportWire struct {
	ep *transport.Endpoint
}

func (t *transportWire) SendTo(dst int, payload []byte) error {
	return transport.SendTo(t.ep.Outbound, rankIdentity(dst), payload)
}

func (t *transportWire) RecvAny() ([]byte, error) {
	return transport.RecvAny(t.ep.Inbound)
}

// New constructs a Group from cfg, using c to serialize payloads carried
// by Broadcast and Reduce. It creates the transport sockets but does not
// bind or connect them; call Initialize to run the bootstrap rendezvous.
//
// New rejects a group size that is not a power of two: the binomial-tree
// shape Gather and Reduce rely on only covers every rank without holes
// when N is a power of two, and the same halving
// arithmetic underlies Broadcast and Scatter, so we reject the whole
// shape up front rather than leave it as per-collective undefined
// behavior (see DESIGN.md).
func New(cfg *config.Config, c codec.Codec) (*Group, error) {
	if !isPowerOfTwo(cfg.NRanks) {
		return nil, &ConfigError{
			Field:  "NRANKS",
			Reason: "must be a power of two; the tree collectives cannot cover every rank otherwise",
		}
	}

	ep, err := transport.New(cfg.Rank)
	if err != nil {
		return nil, err
	}

	g := &Group{
		n:     cfg.NRanks,
		rank:  cfg.Rank,
		addrs: cfg.Addresses,
		codec: c,
		ep:    ep,
	}
	g.wire = &transportWire{ep: ep}
	return g, nil
}

// Initialize binds the inbound socket and runs the bootstrap rendezvous
// It must be called exactly once, before any collective.
func (g *Group) Initialize() error {
	if g.initialized {
		return &ProtocolError{Rank: g.rank, Msg: "Initialize called more than once"}
	}

	if err := g.ep.BindInbound(g.addrs[g.rank]); err != nil {
		bindErr := &BindError{Rank: g.rank, Address: g.addrs[g.rank], Err: err}
		logger.WithFields(log.Fields{"rank": g.rank, "n": g.n}).WithError(bindErr).Error("bind failed")
		return bindErr
	}

	if err := g.runBootstrap(); err != nil {
		logger.WithFields(log.Fields{"rank": g.rank, "n": g.n}).WithError(err).Error("bootstrap failed")
		return err
	}

	g.initialized = true
	logger.WithFields(log.Fields{"rank": g.rank, "n": g.n}).Info("bootstrap complete")
	return nil
}

// requireInitialized reports a *ProtocolError if a collective is invoked
// before Initialize has completed.
func (g *Group) requireInitialized() error {
	if !g.initialized {
		return &ProtocolError{Rank: g.rank, Msg: "collective called before Initialize"}
	}
	return nil
}

// Finalize releases the transport sockets. It is safe to call more than
// once.
func (g *Group) Finalize() error {
	return g.ep.Close()
}

// Rank returns this process's rank in [0, NRanks()).
func (g *Group) Rank() int { return g.rank }

// NRanks returns the fixed group size N.
func (g *Group) NRanks() int { return g.n }

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func rankIdentity(rank int) string {
	return strconv.Itoa(rank)
}
