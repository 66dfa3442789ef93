// Package handler orchestrates one capture session: it is the sink the
// tracer delivers events into, the owner of the intern tables and address
// gate those events consult on the way in, and the lifecycle controller
// that starts and stops the dispatch worker.
//
// Exactly one session is live at a time. Start and Stop are called by a
// single controlling goroutine; the On* sink methods are called concurrently
// from any number of capture threads between Start and the tracer's
// quiescence inside Stop. Calling Start with a session live, or Stop
// without one, is a caller bug and panics.
package handler
