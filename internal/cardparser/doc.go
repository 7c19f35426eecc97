// Package cardparser runs the character card pipeline end to end: locate the
// metadata chunk in a PNG, decode its base64 payload, validate the schema
// generation and extract a normalized extract.Card.
//
// A Parser holds only immutable limits, so one value may be shared by any
// number of goroutines. Every failure is a *parseerr.Error with the file path
// attached and is also reported at WARN through the component logger.
package cardparser
