// Package markup renders Telegram message entities into HTML-like markup
package markup

import (
	"html"
	"sort"
	"strings"
	"unicode/utf8"
)

// Kind is the style of a Span
type Kind int

const (
	// KindUnstyled covers entities that carry no markup (mentions, phones, commands, ...)
	KindUnstyled Kind = iota
	KindBold
	KindItalic
	KindUnderline
	KindStrikethrough
	KindCode
	KindPre
	KindPreCode
	KindURL
	KindTextURL
	KindHashtag
)

// Span is a styled range of text. Offsets are UTF-16 code units, End is exclusive.
type Span struct {
	Start int
	End   int
	Kind  Kind
	Href  string
}

// fragments returns the opening and closing markup for a span
func fragments(s Span) (openTag, closeTag string, ok bool) {
	switch s.Kind {
	case KindBold:
		return "<b>", "</b>", true
	case KindItalic:
		return "<i>", "</i>", true
	case KindUnderline:
		return "<u>", "</u>", true
	case KindStrikethrough:
		return "<strike>", "</strike>", true
	case KindCode:
		return "<code>", "</code>", true
	case KindPre:
		return "<pre>", "</pre>", true
	case KindPreCode:
		return "<pre><code>", "</code></pre>", true
	case KindURL:
		return "<a>", "</a>", true
	case KindTextURL:
		return `<a href="` + html.EscapeString(s.Href) + `">`, "</a>", true
	case KindHashtag:
		return "#", "", true
	default:
		return "", "", false
	}
}

// event groups at the same offset, in emission order
const (
	groupClose = iota
	groupEmpty
	groupOpen
)

type insertion struct {
	pos   int
	group int
	// rank orders insertions within a group, lower first
	rank  int
	index int
	text  string
}

// Render inserts markup for every styled span into text.
//
// At equal offsets closing fragments come first, inner spans closing before
// outer ones, then zero-length spans, then opening fragments with outer spans
// opening before inner ones. Offsets outside the text are clamped.
func Render(text string, spans []Span) string {
	if len(spans) == 0 {
		return text
	}

	length := utf16Len(text)
	events := make([]insertion, 0, len(spans)*2)

	for i, s := range spans {
		openTag, closeTag, ok := fragments(s)
		if !ok {
			continue
		}

		start := clamp(s.Start, 0, length)
		end := clamp(s.End, start, length)

		if start == end {
			events = append(events, insertion{pos: start, group: groupEmpty, index: i, text: openTag + closeTag})
			continue
		}

		events = append(events,
			insertion{pos: start, group: groupOpen, rank: -end, index: i, text: openTag},
			insertion{pos: end, group: groupClose, rank: -start, index: -i, text: closeTag},
		)
	}

	if len(events) == 0 {
		return text
	}

	sort.Slice(events, func(a, b int) bool {
		ea, eb := events[a], events[b]
		if ea.pos != eb.pos {
			return ea.pos < eb.pos
		}
		if ea.group != eb.group {
			return ea.group < eb.group
		}
		if ea.rank != eb.rank {
			return ea.rank < eb.rank
		}
		return ea.index < eb.index
	})

	var b strings.Builder
	b.Grow(len(text) + len(events)*8)

	next := 0
	pos := 0
	for i := 0; i < len(text); {
		for next < len(events) && events[next].pos <= pos {
			b.WriteString(events[next].text)
			next++
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		b.WriteString(text[i : i+size])
		pos += runeUnits(r)
		i += size
	}

	for ; next < len(events); next++ {
		b.WriteString(events[next].text)
	}

	return b.String()
}

func utf16Len(text string) int {
	n := 0
	for _, r := range text {
		n += runeUnits(r)
	}
	return n
}

// runeUnits returns the number of UTF-16 code units needed for r
func runeUnits(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
