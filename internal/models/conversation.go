package models

// Kind classifies a conversation by its access model.
type Kind string

const (
	KindPublic  Kind = "public"
	KindPrivate Kind = "private"
	KindGroupDM Kind = "group-dm"
	KindDirect  Kind = "direct-message"
)

// Precedence returns the fixed sort rank of a kind in rendered output.
func (k Kind) Precedence() int {
	switch k {
	case KindPublic:
		return 0
	case KindPrivate:
		return 1
	case KindGroupDM:
		return 2
	case KindDirect:
		return 3
	}
	return 4
}

// Glyph returns the heading prefix used for the kind in rendered output.
func (k Kind) Glyph() string {
	switch k {
	case KindPublic:
		return "#"
	case KindPrivate:
		return "🔒"
	case KindGroupDM:
		return "👥"
	case KindDirect:
		return "💬"
	}
	return "#"
}

// Conversation represents one Slack conversation the credential can access.
// Immutable once enumerated.
type Conversation struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	UserID string `json:"user,omitempty"` // DM counterpart, set for direct messages only
}
