package export

import (
	"context"

	"go.uber.org/zap"

	"slackrecap/internal/models"
	"slackrecap/internal/slack"
)

// Identity maps participant identifiers to display names. Built once per
// run, read-only afterwards.
type Identity map[string]string

// Resolve returns the display name for an identifier, or the identifier
// itself when unresolved.
func (m Identity) Resolve(id string) string {
	if name, ok := m[id]; ok && name != "" {
		return name
	}
	return id
}

// buildIdentity pages through the workspace member list. Resolution is a
// convenience, not a correctness requirement: on terminal failure whatever
// was accumulated is used and the rest falls back to raw identifiers.
func buildIdentity(ctx context.Context, client *slack.Client, log *zap.Logger) Identity {
	users, err := client.ListUsers(ctx)
	if err != nil {
		log.Warn("identity resolution incomplete, falling back to raw identifiers",
			zap.Int("resolved", len(users)),
			zap.Error(err))
	}

	identity := make(Identity, len(users))
	for _, u := range users {
		identity[u.ID] = u.BestName()
	}
	return identity
}

// displayName picks the rendered name for a conversation: the upstream name
// when present, the resolved counterpart for direct messages, the raw
// conversation id as a last resort.
func displayName(conv models.Conversation, identity Identity) string {
	if conv.Kind == models.KindDirect && conv.UserID != "" {
		return identity.Resolve(conv.UserID)
	}
	if conv.Name != "" {
		return conv.Name
	}
	return conv.ID
}
