// Package ptyprocess spawns a child command attached to a pseudo-terminal
// and lets the caller drive it expect-style: write bytes into its stdin,
// and search its merged stdout/stderr stream for regex prompts.
//
// It exists for SSH-based job adaptors that must script password prompts,
// host-key confirmations, and shell prompts over a real TTY -- a plain
// pipe won't do, since the counterparty (ssh -t, su, sudo) demands one.
package ptyprocess
