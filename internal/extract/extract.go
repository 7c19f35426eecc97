package extract

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"

	"innkeeper/internal/cardspec"
)

// Extract maps a validated document onto Card. It never fails: optional
// fields that are absent or have the wrong JSON type take their neutral
// default. raw must already have passed cardspec.Validate for gen; an
// Unknown generation yields an empty record.
func Extract(raw json.RawMessage, gen cardspec.Generation) Card {
	root := gjson.ParseBytes(raw)
	switch gen {
	case cardspec.Legacy:
		return fromLegacy(root)
	case cardspec.V2:
		return fromEnvelope(root.Get(cardspec.DataKey), gen)
	case cardspec.V3:
		data := root.Get(cardspec.DataKey)
		card := fromEnvelope(data, gen)
		applyV3(&card, data)
		return card
	default:
		return newCard(gen)
	}
}

func fromLegacy(root gjson.Result) Card {
	card := newCard(cardspec.Legacy)
	readCommon(&card, root)
	if card.CreatorNotes == "" {
		card.CreatorNotes = stringField(root, "creatorcomment")
	}
	return card
}

func fromEnvelope(data gjson.Result, gen cardspec.Generation) Card {
	card := newCard(gen)
	readCommon(&card, data)
	card.CharacterVersion = stringField(data, "character_version")
	card.CharacterBook = objectCopy(data.Get("character_book"))
	if ext := objectCopy(data.Get("extensions")); ext != nil {
		card.Extensions = ext
	}
	return card
}

func applyV3(card *Card, data gjson.Result) {
	card.GroupOnlyGreetings = stringList(data.Get("group_only_greetings"))
	card.Nickname = stringField(data, "nickname")
	card.Source = stringList(data.Get("source"))
	card.CreatorNotesMultilingual = objectCopy(data.Get("creator_notes_multilingual"))
	card.Assets = arrayCopy(data.Get("assets"))
	card.CreationDate = intField(data, "creation_date")
	card.ModificationDate = intField(data, "modification_date")
}

// readCommon fills the fields every generation shares.
func readCommon(card *Card, obj gjson.Result) {
	card.Name = stringField(obj, "name")
	card.Description = stringField(obj, "description")
	card.Personality = stringField(obj, "personality")
	card.Scenario = stringField(obj, "scenario")
	card.FirstMes = stringField(obj, "first_mes")
	card.MesExample = stringField(obj, "mes_example")
	card.Creator = stringField(obj, "creator")
	card.CreatorNotes = stringField(obj, "creator_notes")
	card.SystemPrompt = stringField(obj, "system_prompt")
	card.PostHistoryInstructions = stringField(obj, "post_history_instructions")
	card.Tags = stringList(obj.Get("tags"))
	card.AlternateGreetings = stringList(obj.Get("alternate_greetings"))
}

func stringField(obj gjson.Result, key string) string {
	v := obj.Get(key)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

func intField(obj gjson.Result, key string) int64 {
	v := obj.Get(key)
	if v.Type != gjson.Number {
		return 0
	}
	return v.Int()
}

// stringList keeps the string elements of an array in order.
func stringList(v gjson.Result) []string {
	out := []string{}
	if !v.IsArray() {
		return out
	}
	v.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String {
			out = append(out, item.Str)
		}
		return true
	})
	return out
}

func objectCopy(v gjson.Result) json.RawMessage {
	if !v.IsObject() {
		return nil
	}
	return compactCopy(v.Raw)
}

func arrayCopy(v gjson.Result) json.RawMessage {
	if !v.IsArray() {
		return nil
	}
	return compactCopy(v.Raw)
}

// compactCopy copies a raw JSON value into a fresh buffer, dropping
// insignificant whitespace. Key order and number spelling are untouched.
func compactCopy(raw string) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return nil
	}
	return json.RawMessage(buf.Bytes())
}
