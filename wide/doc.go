// Package wide converts between Go strings and the host's wide-character
// strings: sequences of 16-bit UTF-16 code units with an explicit length and
// no terminator.
//
// # Decoding
//
// Decode is strict: an unpaired surrogate fails with an invalid_utf16 error
// carrying the code unit offset. DecodeLossy substitutes U+FFFD instead and is
// meant for names and diagnostics, never for operation arguments.
//
// # Encoding
//
// Encode returns freshly sized storage the caller owns. Invalid UTF-8 bytes in
// the Go string are encoded as U+FFFD.
//
// Buffer keeps up to InlineCap code units inline so that encoding the short
// strings seen on every call (method names, small results) does not touch the
// heap. Longer strings fall back to pooled slices.
package wide
