// Package normalize rewrites raw chat message bodies for display: bracketed
// platform links become anchors and emoji shortcodes outside of links become
// Unicode glyphs. Every pass leaves text without shortcodes or links untouched.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark-emoji/definition"
)

var (
	shortcodeRe = regexp.MustCompile(`:([A-Za-z0-9_+\-]+):`)
	linkRe      = regexp.MustCompile(`<((?:https?|mailto):[^|<>\s]+)(?:\|([^<>]+))?>`)
	markupRe    = regexp.MustCompile(`(?s)<a\s[^>]*>.*?</a>|<[^<>]*>`)

	emojiOnce sync.Once
	emojiSet  definition.Emojis
)

func emojis() definition.Emojis {
	emojiOnce.Do(func() {
		emojiSet = definition.Github()
	})
	return emojiSet
}

// Text applies the link pass followed by the emoji pass
func Text(text string) string {
	return Emoji(Links(text))
}

// Emoji replaces known :shortcode: tokens with their glyph. Unknown tokens
// are kept verbatim. Markup spans (<...> and whole <a> elements) are copied
// unchanged so link targets never change.
func Emoji(text string) string {
	if !strings.Contains(text, ":") {
		return text
	}

	var b strings.Builder
	last := 0
	for _, loc := range markupRe.FindAllStringIndex(text, -1) {
		b.WriteString(replaceShortcodes(text[last:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(replaceShortcodes(text[last:]))
	return b.String()
}

func replaceShortcodes(text string) string {
	if !strings.Contains(text, ":") {
		return text
	}

	set := emojis()
	return shortcodeRe.ReplaceAllStringFunc(text, func(token string) string {
		name := strings.ToLower(strings.Trim(token, ":"))
		e, ok := set.Get(name)
		if !ok || len(e.Unicode) == 0 {
			log.Debug().Str("shortcode", token).Msg("No emoji for shortcode")
			return token
		}
		return string(e.Unicode)
	})
}

// Links converts <url> and <url|alt> markup into anchors. A piped alternate
// that is itself an http(s) URL wins as the target; any other alternate is
// used as the anchor label.
func Links(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	return linkRe.ReplaceAllStringFunc(text, func(token string) string {
		m := linkRe.FindStringSubmatch(token)
		if m == nil {
			return token
		}
		primary, alt := m[1], strings.TrimSpace(m[2])

		href, label := primary, primary
		switch {
		case isWebURL(alt):
			href, label = alt, alt
		case alt != "":
			label = alt
		}
		return anchor(href, label)
	})
}

func isWebURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func anchor(href, label string) string {
	href = strings.ReplaceAll(href, `"`, "%22")
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, href, label)
}
