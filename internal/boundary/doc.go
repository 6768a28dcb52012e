// Package boundary implements the pointer-and-length entry points that the
// C shared library exports.
//
// Every entry point follows the same discipline:
//   - every pointer is checked for nil before it is dereferenced
//   - every length is checked against its fixed size or allowed range
//     before a slice view over caller memory is built
//   - panics are recovered and reported as a negative Status; nothing
//     unwinds into the foreign caller
//   - keys and plaintext copied into Go memory are wiped on every return path
//
// Views over caller memory live only for the duration of one call and are
// never stored. The functions hold no state between calls and may be invoked
// concurrently from any number of host threads.
package boundary
