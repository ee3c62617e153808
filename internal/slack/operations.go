package slack

import (
	"context"
	"net/url"
	"strconv"

	"slackrecap/internal/models"
)

const (
	listPageSize    = 200
	historyPageSize = 1000
	// Slack recommends a low page size for the replies endpoint; it sits in
	// a stricter rate-limit tier.
	repliesPageSize = 200
	usersPageSize   = 200
)

type responseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

// AuthTest validates the credential before any fetch. An invalid or
// insufficiently scoped token fails here, before the run does any work.
func (c *Client) AuthTest(ctx context.Context) error {
	var resp envelope
	return c.retry.Do(ctx, "auth.test", func() error {
		return c.call(ctx, "auth.test", nil, &resp)
	})
}

type conversationJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsChannel bool   `json:"is_channel"`
	IsGroup   bool   `json:"is_group"`
	IsIM      bool   `json:"is_im"`
	IsMPIM    bool   `json:"is_mpim"`
	IsPrivate bool   `json:"is_private"`
	User      string `json:"user"`
}

func (c conversationJSON) kind() models.Kind {
	switch {
	case c.IsIM:
		return models.KindDirect
	case c.IsMPIM:
		return models.KindGroupDM
	case c.IsGroup || c.IsPrivate:
		return models.KindPrivate
	default:
		return models.KindPublic
	}
}

type conversationsPage struct {
	envelope
	Channels         []conversationJSON `json:"channels"`
	ResponseMetadata responseMetadata   `json:"response_metadata"`
}

// ListConversations enumerates every conversation the credential can access,
// across all four kinds, in upstream enumeration order. Terminal failure
// here is run-fatal for the caller: without the conversation set no further
// work is possible.
func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	convos, err := Paginate(ctx, c.retry, "conversations.list",
		func(ctx context.Context, cursor string) (conversationsPage, error) {
			params := url.Values{}
			params.Set("types", "public_channel,private_channel,mpim,im")
			params.Set("limit", strconv.Itoa(listPageSize))
			params.Set("exclude_archived", "true")
			if cursor != "" {
				params.Set("cursor", cursor)
			}
			var page conversationsPage
			err := c.call(ctx, "conversations.list", params, &page)
			return page, err
		},
		func(p conversationsPage) []conversationJSON { return p.Channels },
		func(p conversationsPage) string { return p.ResponseMetadata.NextCursor },
	)
	if err != nil {
		return nil, err
	}

	out := make([]models.Conversation, 0, len(convos))
	for _, raw := range convos {
		out = append(out, models.Conversation{
			ID:     raw.ID,
			Name:   raw.Name,
			Kind:   raw.kind(),
			UserID: raw.User,
		})
	}
	return out, nil
}

type messageJSON struct {
	TS         string `json:"ts"`
	User       string `json:"user"`
	BotID      string `json:"bot_id"`
	Text       string `json:"text"`
	ThreadTS   string `json:"thread_ts"`
	ReplyCount int    `json:"reply_count"`
}

func (m messageJSON) toModel(conversationID string) models.Message {
	return models.Message{
		ConversationID: conversationID,
		TS:             m.TS,
		User:           m.User,
		BotID:          m.BotID,
		Text:           m.Text,
		ThreadTS:       m.ThreadTS,
		ReplyCount:     m.ReplyCount,
	}
}

type messagesPage struct {
	envelope
	Messages         []messageJSON    `json:"messages"`
	ResponseMetadata responseMetadata `json:"response_metadata"`
}

// ConversationHistory retrieves every message in the conversation whose
// timestamp falls inside the inclusive [oldest, latest] epoch-second window,
// in upstream page order.
func (c *Client) ConversationHistory(ctx context.Context, unit, conversationID string, oldest, latest int64) ([]models.Message, error) {
	raw, err := Paginate(ctx, c.retry, unit,
		func(ctx context.Context, cursor string) (messagesPage, error) {
			params := url.Values{}
			params.Set("channel", conversationID)
			params.Set("oldest", strconv.FormatInt(oldest, 10))
			params.Set("latest", strconv.FormatInt(latest, 10))
			params.Set("inclusive", "true")
			params.Set("limit", strconv.Itoa(historyPageSize))
			if cursor != "" {
				params.Set("cursor", cursor)
			}
			var page messagesPage
			err := c.call(ctx, "conversations.history", params, &page)
			return page, err
		},
		func(p messagesPage) []messageJSON { return p.Messages },
		func(p messagesPage) string { return p.ResponseMetadata.NextCursor },
	)
	if err != nil {
		return nil, err
	}

	out := make([]models.Message, 0, len(raw))
	for _, m := range raw {
		out = append(out, m.toModel(conversationID))
	}
	return out, nil
}

// ThreadReplies retrieves the full reply set under a thread root. The
// upstream re-returns the root as the first item; callers are expected to
// drop it.
func (c *Client) ThreadReplies(ctx context.Context, unit, conversationID, rootTS string) ([]models.Message, error) {
	raw, err := Paginate(ctx, c.retry, unit,
		func(ctx context.Context, cursor string) (messagesPage, error) {
			params := url.Values{}
			params.Set("channel", conversationID)
			params.Set("ts", rootTS)
			params.Set("limit", strconv.Itoa(repliesPageSize))
			if cursor != "" {
				params.Set("cursor", cursor)
			}
			var page messagesPage
			err := c.call(ctx, "conversations.replies", params, &page)
			return page, err
		},
		func(p messagesPage) []messageJSON { return p.Messages },
		func(p messagesPage) string { return p.ResponseMetadata.NextCursor },
	)
	if err != nil {
		return nil, err
	}

	out := make([]models.Message, 0, len(raw))
	for _, m := range raw {
		out = append(out, m.toModel(conversationID))
	}
	return out, nil
}

type userJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
	Profile  struct {
		DisplayName string `json:"display_name"`
	} `json:"profile"`
}

type usersPage struct {
	envelope
	Members          []userJSON       `json:"members"`
	ResponseMetadata responseMetadata `json:"response_metadata"`
}

// ListUsers pages through the workspace member list. Identity resolution is
// best-effort: on terminal failure the users accumulated so far are returned
// alongside the error and the caller falls back to raw identifiers for the
// rest.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	raw, err := Paginate(ctx, c.retry, "users.list",
		func(ctx context.Context, cursor string) (usersPage, error) {
			params := url.Values{}
			params.Set("limit", strconv.Itoa(usersPageSize))
			if cursor != "" {
				params.Set("cursor", cursor)
			}
			var page usersPage
			err := c.call(ctx, "users.list", params, &page)
			return page, err
		},
		func(p usersPage) []userJSON { return p.Members },
		func(p usersPage) string { return p.ResponseMetadata.NextCursor },
	)

	out := make([]models.User, 0, len(raw))
	for _, u := range raw {
		out = append(out, models.User{
			ID:          u.ID,
			Name:        u.Name,
			RealName:    u.RealName,
			DisplayName: u.Profile.DisplayName,
		})
	}
	return out, err
}
