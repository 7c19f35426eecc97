// Package cardspec decides which character card schema generation a JSON
// document satisfies.
//
// Three generations exist: Legacy (flat fields on the root object), V2 and V3
// (an envelope with a "spec" discriminator and a "data" object; V3 adds
// optional fields to V2's vocabulary). The presence of a "spec" key is the
// only discriminator, so a broken V2/V3 card is reported as such instead of
// being read as legacy.
package cardspec
