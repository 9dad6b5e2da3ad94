package surface

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// HTMLDocument is a Document over a parsed, statically laid out HTML page.
// Selectors are CSS (tag, #id, .class, [attr], [attr=value], descendant
// and child combinators), translated to XPath. Attribute values may be
// quoted and contain spaces or '>', but not quote characters.
//
// Layout comes from inline styles: an element's box is its own left, top,
// width and height in px, offset by the left and top of every ancestor.
// This matches pages built from absolutely positioned blocks, which is what
// wallpaper-style content usually is.
type HTMLDocument struct {
	root *html.Node
}

// ParseHTML parses an HTML page into a document.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &HTMLDocument{root: root}, nil
}

// NewHTMLDocument wraps an already parsed tree.
func NewHTMLDocument(root *html.Node) *HTMLDocument {
	return &HTMLDocument{root: root}
}

// QuerySelector returns the first element matching the CSS selector, or nil.
func (d *HTMLDocument) QuerySelector(selector string) (Element, error) {
	xpath, err := translateCSSToXPath(selector)
	if err != nil {
		return nil, err
	}
	node, err := htmlquery.Query(d.root, xpath)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	if node == nil {
		return nil, nil
	}
	return &htmlElement{node: node}, nil
}

// htmlElement is an element of an HTMLDocument.
type htmlElement struct {
	node *html.Node
}

func (e *htmlElement) ID() string { return htmlquery.SelectAttr(e.node, "id") }

func (e *htmlElement) ClassName() string { return htmlquery.SelectAttr(e.node, "class") }

// BoundingClientRect sums inline left/top over the element and its
// ancestors and takes width/height from the element itself.
func (e *htmlElement) BoundingClientRect() LogicalRect {
	own := inlineStyle(e.node)
	r := LogicalRect{
		Width:  own["width"],
		Height: own["height"],
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		st := inlineStyle(n)
		r.Left += st["left"]
		r.Top += st["top"]
	}
	return r
}

// inlineStyle returns the numeric px values of an element's box properties.
func inlineStyle(n *html.Node) map[string]float64 {
	out := make(map[string]float64, 4)
	style := htmlquery.SelectAttr(n, "style")
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "left", "top", "width", "height":
		default:
			continue
		}
		value = strings.TrimSuffix(strings.TrimSpace(value), "px")
		if v, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			out[name] = v
		}
	}
	return out
}

// translateCSSToXPath converts a simple CSS selector to an XPath expression.
func translateCSSToXPath(selector string) (string, error) {
	tokens, err := tokenizeSelector(selector)
	if err != nil {
		return "", fmt.Errorf("selector %q: %w", selector, err)
	}
	if len(tokens) == 0 {
		return "", fmt.Errorf("empty selector")
	}

	var sb strings.Builder
	axis := "//"
	for _, tok := range tokens {
		if tok == ">" {
			if sb.Len() == 0 || axis == "/" {
				return "", fmt.Errorf("selector %q: misplaced '>'", selector)
			}
			axis = "/"
			continue
		}
		step, err := compoundToXPath(tok)
		if err != nil {
			return "", fmt.Errorf("selector %q: %w", selector, err)
		}
		sb.WriteString(axis)
		sb.WriteString(step)
		axis = "//"
	}
	if axis == "/" {
		return "", fmt.Errorf("selector %q: trailing '>'", selector)
	}
	return sb.String(), nil
}

// tokenizeSelector splits a selector into compound selectors and '>'
// combinators. Whitespace and '>' inside [...] or quotes are literal.
func tokenizeSelector(sel string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		quote  byte
		depth  int
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case depth > 0 && (c == '"' || c == '\''):
			quote = c
		case c == '[':
			depth++
		case c == ']':
			if depth == 0 {
				return nil, fmt.Errorf("unexpected ']'")
			}
			depth--
		case depth == 0 && (c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'):
			flush()
			continue
		case depth == 0 && c == '>':
			flush()
			tokens = append(tokens, ">")
			continue
		}
		cur.WriteByte(c)
	}
	if quote != 0 || depth > 0 {
		return nil, fmt.Errorf("unterminated attribute selector")
	}
	flush()
	return tokens, nil
}

// compoundToXPath converts one compound selector such as div#main.card[role=button].
func compoundToXPath(tok string) (string, error) {
	i := 0
	if strings.HasPrefix(tok, "*") {
		i = 1
	} else {
		for i < len(tok) && isIdentChar(tok[i]) {
			i++
		}
	}
	tag := strings.ToLower(tok[:i])
	if tag == "" {
		tag = "*"
	}

	var preds []string
	for i < len(tok) {
		switch tok[i] {
		case '#', '.':
			kind := tok[i]
			j := i + 1
			for j < len(tok) && isIdentChar(tok[j]) {
				j++
			}
			name := tok[i+1 : j]
			if name == "" {
				return "", fmt.Errorf("empty name after %q", kind)
			}
			if kind == '#' {
				preds = append(preds, fmt.Sprintf("[@id='%s']", name))
			} else {
				preds = append(preds, fmt.Sprintf("[contains(concat(' ', normalize-space(@class), ' '), ' %s ')]", name))
			}
			i = j
		case '[':
			end := closingBracket(tok[i:])
			if end < 0 {
				return "", fmt.Errorf("unterminated attribute selector")
			}
			pred, err := attrToXPath(tok[i+1 : i+end])
			if err != nil {
				return "", err
			}
			preds = append(preds, pred)
			i += end + 1
		default:
			return "", fmt.Errorf("unexpected %q", tok[i])
		}
	}
	return tag + strings.Join(preds, ""), nil
}

func attrToXPath(body string) (string, error) {
	name, value, hasValue := strings.Cut(body, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty attribute name")
	}
	for k := 0; k < len(name); k++ {
		if !isIdentChar(name[k]) {
			return "", fmt.Errorf("bad attribute name %q", name)
		}
	}
	if !hasValue {
		return fmt.Sprintf("[@%s]", name), nil
	}
	value = strings.Trim(strings.TrimSpace(value), `"'`)
	if strings.ContainsAny(value, `'"`) {
		return "", fmt.Errorf("quote inside attribute value")
	}
	return fmt.Sprintf("[@%s='%s']", name, value), nil
}

// closingBracket returns the index of the ']' closing s[0], skipping quoted
// text, or -1.
func closingBracket(s string) int {
	var quote byte
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ']':
			return i
		}
	}
	return -1
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
