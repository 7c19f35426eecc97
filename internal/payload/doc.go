// Package payload decodes the text of a card metadata chunk into JSON.
//
// It guarantees structural validity only (base64, UTF-8, JSON syntax) and
// never looks at the document's shape; schema decisions belong to cardspec.
package payload
