package normalizer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// Selectors for elements that change between requests without the page
// content changing.
const (
	scriptSelector      = "script"
	hiddenInputSelector = "input[type=hidden]"
)

// blockElements get a separating space in the extracted text so that
// "<p>a</p><p>b</p>" and "<p>ab</p>" do not normalize to the same string.
var blockElements = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "br": {},
	"dd": {}, "div": {}, "dl": {}, "dt": {}, "fieldset": {}, "figcaption": {},
	"figure": {}, "footer": {}, "form": {}, "h1": {}, "h2": {}, "h3": {},
	"h4": {}, "h5": {}, "h6": {}, "header": {}, "hr": {}, "li": {},
	"main": {}, "nav": {}, "ol": {}, "p": {}, "pre": {}, "section": {},
	"table": {}, "tbody": {}, "td": {}, "tfoot": {}, "th": {}, "thead": {},
	"tr": {}, "ul": {},
}

// skippedElements hold data rather than text. Everything else under body,
// noscript and template included, counts as page text.
var skippedElements = map[string]struct{}{
	"script": {}, "style": {},
}

// ContentNormalizer reduces an HTML document to its visible body text.
type ContentNormalizer struct {
	logger zerolog.Logger
}

// NewContentNormalizer creates a normalizer that logs degraded parses to logger.
func NewContentNormalizer(logger zerolog.Logger) *ContentNormalizer {
	return &ContentNormalizer{
		logger: logger.With().Str("component", "ContentNormalizer").Logger(),
	}
}

var defaultNormalizer = NewContentNormalizer(zerolog.Nop())

// Normalize uses a normalizer without logging.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Normalize strips scripts, hidden inputs and comments, keeps the text of
// body and collapses whitespace. If the document cannot be parsed the raw
// input is returned unchanged.
func (n *ContentNormalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	// With scripting disabled noscript children parse as elements instead of
	// one raw text node, so their text is extracted like any other markup.
	root, err := html.ParseWithOptions(strings.NewReader(raw), html.ParseOptionEnableScripting(false))
	if err != nil {
		n.logger.Warn().Err(err).Int("content_length", len(raw)).Msg("Failed to parse HTML, comparing raw content")
		return raw
	}
	doc := goquery.NewDocumentFromNode(root)

	doc.Find(scriptSelector).Remove()
	doc.Find(hiddenInputSelector).Remove()
	for _, root := range doc.Nodes {
		removeComments(root)
	}

	var sb strings.Builder
	doc.Find("body").Each(func(_ int, body *goquery.Selection) {
		for _, node := range body.Nodes {
			writeText(&sb, node)
		}
	})

	return strings.Join(strings.Fields(sb.String()), " ")
}

func removeComments(node *html.Node) {
	for child := node.FirstChild; child != nil; {
		next := child.NextSibling
		if child.Type == html.CommentNode {
			node.RemoveChild(child)
		} else {
			removeComments(child)
		}
		child = next
	}
}

func writeText(sb *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		sb.WriteString(node.Data)
		return
	case html.ElementNode:
		if _, skip := skippedElements[node.Data]; skip {
			return
		}
	}

	_, block := blockElements[node.Data]
	if block && node.Type == html.ElementNode {
		sb.WriteByte(' ')
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		writeText(sb, child)
	}
	if block && node.Type == html.ElementNode {
		sb.WriteByte(' ')
	}
}
