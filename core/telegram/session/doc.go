// Package session tracks per-user conversation state: the menu currently on
// screen (with the arguments needed to redraw it) and the single in-flight
// action, if any. Sessions are created lazily on first touch and live for the
// process lifetime; there is no eviction and no persistence, so a restart
// returns every user to the idle state on the landing menu.
//
// Mutations are serialized by a mutex, but two updates from the same user
// racing each other (double-tap, second device) resolve as last write wins.
// That approximation is accepted; the store only guarantees that no torn
// session is ever observable.
package session
