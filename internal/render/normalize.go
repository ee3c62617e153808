package render

import (
	"regexp"
	"strings"
)

// Slack markup tokens and emphasis markers, stripped in a fixed order: token
// substitution first, emphasis markers after, whitespace last. Stripping
// emphasis before links would corrupt the link syntax, so the order here is
// load-bearing.
var (
	mentionRe     = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|[^>]*)?>`)
	channelRe     = regexp.MustCompile(`<#([A-Z0-9]+)\|([^>]*)>`)
	bareChannelRe = regexp.MustCompile(`<#([A-Z0-9]+)>`)
	labeledLinkRe = regexp.MustCompile(`<((?:https?|mailto)[^|>]+)\|([^>]*)>`)
	bareLinkRe    = regexp.MustCompile(`<((?:https?|mailto)[^>]+)>`)

	codeFenceRe = regexp.MustCompile("```")
	boldRe      = regexp.MustCompile(`\*([^*\n]+)\*`)
	italicRe    = regexp.MustCompile(`_([^_\n]+)_`)
	strikeRe    = regexp.MustCompile(`~([^~\n]+)~`)
	inlineRe    = regexp.MustCompile("`([^`\n]+)`")

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize rewrites one raw Slack message body into plain renderable text.
// resolve maps a participant identifier to a display name, returning the
// identifier unchanged when unknown.
func Normalize(text string, resolve func(id string) string) string {
	text = mentionRe.ReplaceAllStringFunc(text, func(tok string) string {
		id := mentionRe.FindStringSubmatch(tok)[1]
		return "@" + resolve(id)
	})
	text = channelRe.ReplaceAllString(text, "#$2")
	text = bareChannelRe.ReplaceAllString(text, "#$1")
	text = labeledLinkRe.ReplaceAllString(text, "[$2]($1)")
	text = bareLinkRe.ReplaceAllString(text, "$1")

	text = codeFenceRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = strikeRe.ReplaceAllString(text, "$1")
	text = inlineRe.ReplaceAllString(text, "$1")

	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
