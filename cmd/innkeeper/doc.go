// Package main hosts the innkeeper CLI entrypoint and command graph.
//
// The Cobra command tree exposes the card parser to the terminal: parsing
// single cards to JSON or YAML, validating batches, listing PNG chunks,
// scanning whole libraries, and scaffolding configuration. Configuration and
// logger construction are resolved once per invocation in commandContext so
// subcommands only deal with presentation.
package main
