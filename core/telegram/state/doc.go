// Package state remembers, per user, the id of the last bot message that is
// still "live" in their chat, so the next screen can replace it.
package state
