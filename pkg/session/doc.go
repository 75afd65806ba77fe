/*
Package session serializes access to conversation sessions.

A Manager wraps a ports.SessionStore and guarantees that turns of the same
session never interleave: a per-session mutex covers the local process and an
optional ports.DistributedLocker covers replicas sharing one store.
*/
package session
