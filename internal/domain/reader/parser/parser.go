// Package parser extracts renderable content from MTProto channel messages
package parser

import (
	"time"

	"github.com/gotd/td/tg"

	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/markup"
)

// Content returns the markup of a message. Plain text messages render their
// text; photos, documents and web page previews render their caption. Any
// other media and empty messages yield false.
func Content(msg *tg.Message) (string, bool) {
	if msg == nil || msg.Message == "" {
		return "", false
	}

	switch msg.Media.(type) {
	case nil, *tg.MessageMediaPhoto, *tg.MessageMediaDocument, *tg.MessageMediaWebPage:
	default:
		return "", false
	}

	return markup.Render(msg.Message, Spans(msg.Entities)), true
}

// Item builds a ContentItem for a message posted in a channel
func Item(msg *tg.Message) (entities.ContentItem, bool) {
	peer, ok := msg.PeerID.(*tg.PeerChannel)
	if !ok {
		return entities.ContentItem{}, false
	}

	text, ok := Content(msg)
	if !ok {
		return entities.ContentItem{}, false
	}

	return entities.ContentItem{
		ChannelID: peer.ChannelID,
		MessageID: msg.ID,
		Date:      time.Unix(int64(msg.Date), 0).UTC(),
		Text:      text,
	}, true
}

// Spans converts message entities into markup spans
func Spans(list []tg.MessageEntityClass) []markup.Span {
	if len(list) == 0 {
		return nil
	}

	spans := make([]markup.Span, 0, len(list))
	for _, e := range list {
		span := markup.Span{
			Start: e.GetOffset(),
			End:   e.GetOffset() + e.GetLength(),
		}

		switch v := e.(type) {
		case *tg.MessageEntityBold:
			span.Kind = markup.KindBold
		case *tg.MessageEntityItalic:
			span.Kind = markup.KindItalic
		case *tg.MessageEntityUnderline:
			span.Kind = markup.KindUnderline
		case *tg.MessageEntityStrike:
			span.Kind = markup.KindStrikethrough
		case *tg.MessageEntityCode:
			span.Kind = markup.KindCode
		case *tg.MessageEntityPre:
			span.Kind = markup.KindPre
			if v.Language != "" {
				span.Kind = markup.KindPreCode
			}
		case *tg.MessageEntityURL:
			span.Kind = markup.KindURL
		case *tg.MessageEntityTextURL:
			span.Kind = markup.KindTextURL
			span.Href = v.URL
		case *tg.MessageEntityHashtag:
			span.Kind = markup.KindHashtag
		default:
			span.Kind = markup.KindUnstyled
		}

		spans = append(spans, span)
	}
	return spans
}
