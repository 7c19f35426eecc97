// Package library scans a directory tree of character cards. Files are
// parsed with bounded concurrency and reported back in walk order, one
// Result per file, so a broken card never hides the rest of the library.
package library
