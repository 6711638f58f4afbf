// Package session manages the lifecycle of simulation sessions.
//
// The Manager keeps active sessions in memory behind a read-write lock
// and optionally mirrors them through a Persistence implementation.
// FilePersistence stores each session as a JSON file carrying its
// parameters, its terrain seed, and its full mission history; loading
// one rebuilds the identical terrain and restores the history.
package session
