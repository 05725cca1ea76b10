package markup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_NoSpansIsIdentity(t *testing.T) {
	for _, text := range []string{"", "hello", "<b>raw</b>", "👍 ok"} {
		require.Equal(t, text, Render(text, nil))
		require.Equal(t, text, Render(text, []Span{}))
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		spans []Span
		want  string
	}{
		{
			name:  "bold over whole text",
			text:  "hello",
			spans: []Span{{Start: 0, End: 5, Kind: KindBold}},
			want:  "<b>hello</b>",
		},
		{
			name: "close before open at shared offset",
			text: "abcd",
			spans: []Span{
				{Start: 2, End: 4, Kind: KindItalic},
				{Start: 0, End: 2, Kind: KindBold},
			},
			want: "<b>ab</b><i>cd</i>",
		},
		{
			name: "nested spans",
			text: "abcd",
			spans: []Span{
				{Start: 1, End: 3, Kind: KindItalic},
				{Start: 0, End: 4, Kind: KindBold},
			},
			want: "<b>a<i>bc</i>d</b>",
		},
		{
			name: "shared start opens outer first",
			text: "abcd",
			spans: []Span{
				{Start: 0, End: 2, Kind: KindItalic},
				{Start: 0, End: 4, Kind: KindBold},
			},
			want: "<b><i>ab</i>cd</b>",
		},
		{
			name: "shared end closes inner first",
			text: "abcd",
			spans: []Span{
				{Start: 0, End: 4, Kind: KindBold},
				{Start: 2, End: 4, Kind: KindItalic},
			},
			want: "<b>ab<i>cd</i></b>",
		},
		{
			name: "identical ranges keep input order",
			text: "ab",
			spans: []Span{
				{Start: 0, End: 2, Kind: KindBold},
				{Start: 0, End: 2, Kind: KindItalic},
			},
			want: "<b><i>ab</i></b>",
		},
		{
			name: "offsets are utf16 units",
			text: "👍 ok",
			spans: []Span{{Start: 3, End: 5, Kind: KindBold}},
			want: "👍 <b>ok</b>",
		},
		{
			name:  "out of range offsets are clamped",
			text:  "abc",
			spans: []Span{{Start: -3, End: 100, Kind: KindUnderline}},
			want:  "<u>abc</u>",
		},
		{
			name: "zero length span between close and open",
			text: "ab",
			spans: []Span{
				{Start: 1, End: 2, Kind: KindCode},
				{Start: 1, End: 1, Kind: KindBold},
				{Start: 0, End: 1, Kind: KindItalic},
			},
			want: "<i>a</i><b></b><code>b</code>",
		},
		{
			name:  "text url escapes href",
			text:  "link",
			spans: []Span{{Start: 0, End: 4, Kind: KindTextURL, Href: "https://example.com/?a=1&b=2"}},
			want:  `<a href="https://example.com/?a=1&amp;b=2">link</a>`,
		},
		{
			name:  "plain url",
			text:  "see example.com",
			spans: []Span{{Start: 4, End: 15, Kind: KindURL}},
			want:  "see <a>example.com</a>",
		},
		{
			name:  "hashtag has no closing fragment",
			text:  "#go",
			spans: []Span{{Start: 0, End: 3, Kind: KindHashtag}},
			want:  "##go",
		},
		{
			name: "pre and pre with code",
			text: "ab",
			spans: []Span{
				{Start: 0, End: 1, Kind: KindPre},
				{Start: 1, End: 2, Kind: KindPreCode},
			},
			want: "<pre>a</pre><pre><code>b</code></pre>",
		},
		{
			name:  "strikethrough",
			text:  "old",
			spans: []Span{{Start: 0, End: 3, Kind: KindStrikethrough}},
			want:  "<strike>old</strike>",
		},
		{
			name:  "unstyled kinds add nothing",
			text:  "call @bob",
			spans: []Span{{Start: 5, End: 9, Kind: KindUnstyled}},
			want:  "call @bob",
		},
		{
			name:  "span on empty text",
			text:  "",
			spans: []Span{{Start: 0, End: 3, Kind: KindBold}},
			want:  "<b></b>",
		},
		{
			name:  "end before start collapses to empty span",
			text:  "abc",
			spans: []Span{{Start: 2, End: 1, Kind: KindItalic}},
			want:  "ab<i></i>c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Render(tt.text, tt.spans))
		})
	}
}
