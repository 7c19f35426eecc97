package cardspec

import "fmt"

// Generation identifies the card schema a document conforms to.
type Generation int

const (
	Unknown Generation = iota
	Legacy
	V2
	V3
)

// Spec discriminator values.
const (
	TagV2 = "chara_card_v2"
	TagV3 = "chara_card_v3"
)

func (g Generation) String() string {
	switch g {
	case Legacy:
		return "legacy"
	case V2:
		return "v2"
	case V3:
		return "v3"
	default:
		return "unknown"
	}
}

// Tag returns the spec discriminator written by enveloped generations.
func (g Generation) Tag() string {
	switch g {
	case V2:
		return TagV2
	case V3:
		return TagV3
	default:
		return ""
	}
}

func (g Generation) MarshalText() ([]byte, error) {
	if g == Unknown {
		return nil, fmt.Errorf("marshal generation: unknown value %d", int(g))
	}
	return []byte(g.String()), nil
}

func (g *Generation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "legacy":
		*g = Legacy
	case "v2":
		*g = V2
	case "v3":
		*g = V3
	default:
		return fmt.Errorf("unmarshal generation: unknown value %q", text)
	}
	return nil
}

func generationForTag(tag string) (Generation, bool) {
	switch tag {
	case TagV2:
		return V2, true
	case TagV3:
		return V3, true
	default:
		return Unknown, false
	}
}
