// Package extract maps validated card documents onto the normalized Card
// record.
//
// Required fields are guaranteed by cardspec before extraction runs, so
// Extract cannot fail. Optional fields are read leniently: a missing or
// wrongly typed value becomes its neutral default, list fields keep only
// their string elements, and opaque values (extensions, character_book,
// assets) are copied byte for byte minus insignificant whitespace so vendor
// data round-trips with its key order intact.
package extract
