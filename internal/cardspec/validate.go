package cardspec

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"innkeeper/internal/parseerr"
)

// DataKey is the envelope key holding card fields in V2 and V3 documents.
const DataKey = "data"

// V3Fields lists the superset keys V3 adds to the V2 data object with the
// JSON type each must have when present. JSON null counts as absent.
var V3Fields = []FieldType{
	{Key: "group_only_greetings", Type: gjson.JSON, Array: true},
	{Key: "assets", Type: gjson.JSON, Array: true},
	{Key: "nickname", Type: gjson.String},
	{Key: "source", Type: gjson.JSON, Array: true},
	{Key: "creator_notes_multilingual", Type: gjson.JSON},
	{Key: "creation_date", Type: gjson.Number},
	{Key: "modification_date", Type: gjson.Number},
}

// FieldType pairs a key with its expected JSON type. For gjson.JSON, Array
// selects between array and object.
type FieldType struct {
	Key   string
	Type  gjson.Type
	Array bool
}

func (f FieldType) matches(v gjson.Result) bool {
	if v.Type != f.Type {
		return false
	}
	if f.Type != gjson.JSON {
		return true
	}
	if f.Array {
		return v.IsArray()
	}
	return v.IsObject()
}

func (f FieldType) describe() string {
	switch f.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.JSON:
		if f.Array {
			return "array"
		}
		return "object"
	default:
		return f.Type.String()
	}
}

// Validate decides which generation raw satisfies. Rules are applied in a
// fixed order and the first match wins:
//
//  1. raw must be an object.
//  2. If a "spec" key exists, it alone decides: the value must be a known
//     tag, "data" must be an object holding string "name" and "description",
//     and V3 superset fields must have their declared types. Legacy rules are
//     never tried for such documents.
//  3. Otherwise the document is legacy and needs top-level string "name" and
//     "description".
func Validate(raw json.RawMessage) (Generation, error) {
	if !gjson.ValidBytes(raw) {
		return Unknown, parseerr.New(parseerr.KindInvalidJSON, "")
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Unknown, parseerr.New(parseerr.KindNotAnObject, fmt.Sprintf("found %s", describeType(root)))
	}

	if spec := root.Get("spec"); spec.Exists() {
		return validateEnveloped(root, spec)
	}
	return validateLegacy(root)
}

func validateEnveloped(root, spec gjson.Result) (Generation, error) {
	if spec.Type != gjson.String {
		return Unknown, parseerr.UnknownSpec(spec.Raw)
	}
	gen, ok := generationForTag(spec.Str)
	if !ok {
		return Unknown, parseerr.UnknownSpec(spec.Raw)
	}

	data := root.Get(DataKey)
	if !data.IsObject() {
		detail := "key absent"
		if data.Exists() {
			detail = "found " + describeType(data)
		}
		return Unknown, parseerr.New(parseerr.KindMissingDataEnvelope, detail)
	}
	if err := requireStrings(data, DataKey, "name", "description"); err != nil {
		return Unknown, err
	}
	if gen == V3 {
		for _, field := range V3Fields {
			v := data.Get(field.Key)
			if !v.Exists() || v.Type == gjson.Null {
				continue
			}
			if !field.matches(v) {
				return Unknown, parseerr.MissingField(DataKey, field.Key, fmt.Sprintf("expected %s, found %s", field.describe(), describeType(v)))
			}
		}
	}
	return gen, nil
}

func validateLegacy(root gjson.Result) (Generation, error) {
	if !root.Get("name").Exists() && !root.Get("description").Exists() {
		return Unknown, parseerr.New(parseerr.KindNoRecognizedFields, "expected \"spec\" or top-level \"name\" and \"description\"")
	}
	if err := requireStrings(root, "", "name", "description"); err != nil {
		return Unknown, err
	}
	return Legacy, nil
}

func requireStrings(obj gjson.Result, location string, keys ...string) error {
	for _, key := range keys {
		v := obj.Get(key)
		if !v.Exists() {
			return parseerr.MissingField(location, key, "key absent")
		}
		if v.Type != gjson.String {
			return parseerr.MissingField(location, key, "expected string, found "+describeType(v))
		}
	}
	return nil
}

func describeType(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	case gjson.JSON:
		if v.IsArray() {
			return "array"
		}
		return "object"
	default:
		return v.Type.String()
	}
}
