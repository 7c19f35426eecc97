package testsupport

// Sample cards for each schema generation.
const (
	LegacyCardJSON = `{"name":"Ada","description":"A scientist."}`

	V2CardJSON = `{
  "spec": "chara_card_v2",
  "spec_version": "2.0",
  "data": {
    "name": "Bram",
    "description": "An innkeeper.",
    "personality": "warm",
    "scenario": "a rainy night",
    "first_mes": "Welcome in.",
    "mes_example": "<START>",
    "creator": "someone",
    "creator_notes": "v2 notes",
    "tags": ["fantasy", 7, "tavern"],
    "alternate_greetings": ["hi", 42, "there"],
    "system_prompt": "stay in character",
    "post_history_instructions": "be brief",
    "character_version": "1.2",
    "character_book": {"name": "Town", "entries": [{"keys": ["mill"], "content": "old"}]},
    "extensions": {"zeta": 1, "alpha": {"nested": true}}
  }
}`

	V3CardJSON = `{
  "spec": "chara_card_v3",
  "spec_version": "3.0",
  "data": {
    "name": "Cora",
    "description": "A cartographer.",
    "nickname": "Cor",
    "tags": ["maps"],
    "group_only_greetings": ["hello all", false, "welcome"],
    "source": ["https://example.invalid/cora"],
    "creation_date": 1700000000,
    "modification_date": 1700000500,
    "assets": [{"type": "icon", "uri": "ccdefault:", "name": "main", "ext": "png"}],
    "creator_notes_multilingual": {"en": "notes", "fr": "notes fr"},
    "extensions": {"foo": {"bar": [1, 2, 3]}}
  }
}`
)
