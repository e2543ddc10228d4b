package normalizer

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "plain body text",
			input:    "<html><body><p>Price: $10</p></body></html>",
			expected: "Price: $10",
		},
		{
			name:     "scripts removed",
			input:    `<html><body><script>var t = 1700000000;</script><p>Hello</p></body></html>`,
			expected: "Hello",
		},
		{
			name:     "hidden inputs removed",
			input:    `<body><form><input type="hidden" name="csrf" value="abc"><input type="text" value="x">Name</form></body>`,
			expected: "Name",
		},
		{
			name:     "comments removed",
			input:    `<body><!-- rendered at 12:00 --><p>Stable<!-- inline --> text</p></body>`,
			expected: "Stable text",
		},
		{
			name:     "whitespace collapsed",
			input:    "<body>\n\n   Hello \t\t  world  \n</body>",
			expected: "Hello world",
		},
		{
			name:     "head ignored",
			input:    "<html><head><title>Title v2</title><style>p{}</style></head><body>Body</body></html>",
			expected: "Body",
		},
		{
			name:     "block elements separated",
			input:    "<body><p>a</p><p>b</p></body>",
			expected: "a b",
		},
		{
			name:     "inline elements joined",
			input:    "<body><b>a</b>b</body>",
			expected: "ab",
		},
		{
			name:     "noscript text kept",
			input:    "<body><p>Hi</p><noscript>Price 10</noscript></body>",
			expected: "Hi Price 10",
		},
		{
			name:     "noscript markup parsed as elements",
			input:    "<body><noscript><p>Enable <b>JS</b></p></noscript></body>",
			expected: "Enable JS",
		},
		{
			name:     "template text kept",
			input:    "<body><template><span>Row</span></template></body>",
			expected: "Row",
		},
		{
			name:     "style in body skipped",
			input:    "<body><style>.a{color:red}</style>Shown</body>",
			expected: "Shown",
		},
		{
			name:     "fragment without body tag",
			input:    "just some text",
			expected: "just some text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_CosmeticDifferencesCompareEqual(t *testing.T) {
	a := `<html><body><div>Stock:  <b>5</b></div><script>track(1)</script></body></html>`
	b := `<html><body>
<!-- build 42 -->
<div>Stock: <b>5</b></div>
<script>track(2)</script>
<input type="hidden" name="nonce" value="zz">
</body></html>`

	assert.Equal(t, Normalize(a), Normalize(b))
}

func TestNormalize_ContentDifferencesCompareUnequal(t *testing.T) {
	assert.NotEqual(t,
		Normalize("<html><body>Price: $10</body></html>"),
		Normalize("<html><body>Price: $12</body></html>"))
}

func TestNormalize_NoscriptChangeIsDetected(t *testing.T) {
	assert.NotEqual(t,
		Normalize("<body><p>Hi</p><noscript>Price 10</noscript></body>"),
		Normalize("<body><p>Hi</p><noscript>Price 12</noscript></body>"))
}

func TestContentNormalizer_WithLogger(t *testing.T) {
	n := NewContentNormalizer(zerolog.Nop())
	assert.Equal(t, "ok", n.Normalize("<body> ok </body>"))
}
