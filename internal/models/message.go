package models

// Message represents a single Slack message as fetched. Fields are never
// mutated after the originating fetch completes; thread replies live in a
// side map owned by the exporter, not on the message itself.
type Message struct {
	ConversationID string `json:"conversation_id"`
	TS             string `json:"ts"` // fractional-seconds string, total order key within a conversation
	User           string `json:"user,omitempty"`
	BotID          string `json:"bot_id,omitempty"`
	Text           string `json:"text"`
	ThreadTS       string `json:"thread_ts,omitempty"`
	ReplyCount     int    `json:"reply_count,omitempty"`
}

// IsThreadRoot reports whether the message anchors a thread: its thread
// timestamp is its own timestamp and at least one reply exists.
func (m Message) IsThreadRoot() bool {
	return m.ReplyCount > 0 && m.ThreadTS == m.TS
}

// IsTopLevel reports whether the message belongs at the top level of a
// conversation. Thread replies carry a thread_ts different from their own ts
// and are fetched through the replies endpoint instead.
func (m Message) IsTopLevel() bool {
	return m.ThreadTS == "" || m.ThreadTS == m.TS
}

// AuthorID returns the participant or bot identifier that authored the
// message.
func (m Message) AuthorID() string {
	if m.User != "" {
		return m.User
	}
	return m.BotID
}

// User represents a workspace member, used to resolve author and mention
// identifiers to display names.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RealName    string `json:"real_name"`
	DisplayName string `json:"display_name"`
}

// BestName returns the most human-friendly name available for the user.
func (u User) BestName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.RealName != "" {
		return u.RealName
	}
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}
