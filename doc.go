// Package collectives implements a small, opinionated set of MPI-style
// group-communication primitives — broadcast, reduce, barrier, scatter,
// and gather — over a fixed set of peer processes ("ranks") that
// rendezvous at startup via ZeroMQ ROUTER sockets and then perform
// zero or more synchronous collective operations before finalizing.
//
// A process constructs a Group from configuration (see the config
// subpackage), calls Initialize exactly once to run the bootstrap
// rendezvous, issues any number of collective calls in the same order
// every other rank issues them, and finally calls Finalize to release
// transport resources.
package collectives
