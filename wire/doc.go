// Package wire implements the binary request/response dialect described
// in spec.md §4.8 and §6: a varlen integer prefix, big-endian fixed
// fields, the KeyOrHash vertex-identifier encoding, and the closed set
// of error Kinds shared by both the binary and JSON HTTP surfaces.
//
// Nothing here talks to a network socket; api/ owns the HTTP framing
// and calls into this package purely for encode/decode and error
// classification.
package wire
