package extract

import (
	"encoding/json"

	"innkeeper/internal/cardspec"
)

// Card is the normalized character record. Its shape does not depend on the
// generation that produced it: string fields default to "", list fields to
// empty (never nil), Extensions to {} and the opaque passthrough values to
// null.
type Card struct {
	Name                    string   `json:"name"`
	Description             string   `json:"description"`
	Personality             string   `json:"personality"`
	Scenario                string   `json:"scenario"`
	FirstMes                string   `json:"first_mes"`
	MesExample              string   `json:"mes_example"`
	Creator                 string   `json:"creator"`
	CreatorNotes            string   `json:"creator_notes"`
	Tags                    []string `json:"tags"`
	AlternateGreetings      []string `json:"alternate_greetings"`
	GroupOnlyGreetings      []string `json:"group_only_greetings"`
	SystemPrompt            string   `json:"system_prompt"`
	PostHistoryInstructions string   `json:"post_history_instructions"`
	CharacterVersion        string   `json:"character_version"`

	// CharacterBook is the lorebook exactly as the card stored it.
	CharacterBook json.RawMessage `json:"character_book"`
	// Extensions is the vendor extension object with key order preserved.
	Extensions json.RawMessage `json:"extensions"`

	Nickname                 string          `json:"nickname"`
	Source                   []string        `json:"source"`
	CreatorNotesMultilingual json.RawMessage `json:"creator_notes_multilingual"`
	Assets                   json.RawMessage `json:"assets"`
	CreationDate             int64           `json:"creation_date"`
	ModificationDate         int64           `json:"modification_date"`

	SpecVersion cardspec.Generation `json:"spec_version"`
}

var emptyObject = json.RawMessage(`{}`)

func newCard(gen cardspec.Generation) Card {
	return Card{
		Tags:               []string{},
		AlternateGreetings: []string{},
		GroupOnlyGreetings: []string{},
		Source:             []string{},
		Extensions:         append(json.RawMessage(nil), emptyObject...),
		SpecVersion:        gen,
	}
}
