// Package session owns the portal's single login session.
//
// A Manager starts in the initializing state and settles exactly once, via
// Initialize, into either unauthenticated or authenticated. Cached sessions
// are re-validated against the auth service's profile endpoint before they
// are trusted. From then on the in-memory session and the Store hold the same
// token and user, or both hold nothing.
//
// Mutations (Initialize, Login, Register, Logout, Invalidate) are serialized.
// Reads return the last settled state and never wait for a mutation.
package session
