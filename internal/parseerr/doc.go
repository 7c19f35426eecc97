// Package parseerr defines the failure taxonomy shared by every stage of the
// card ingestion pipeline.
//
// Stages return *Error values tagged with a Kind. Callers classify failures
// with errors.Is against the exported sentinels (ErrMissingDataEnvelope and
// friends) or with KindOf, and read the diagnostic fields (Field, Found,
// Path) to build messages without re-parsing the card.
package parseerr
