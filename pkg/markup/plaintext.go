// Package markup extracts plain text from the rich-text markup stored in notes.
//
// Note content is HTML produced by a rich-text editor (headings, lists,
// links, inline images). The persistence layer treats it as opaque; this
// package exists only to answer "is there anything typed in this note?".
package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ObjectReplacement stands in for inline images in plain text, the same way
// rich-text editors report embedded objects.
const ObjectReplacement = "\uFFFC"

// skipped elements never contribute visible text.
var skipped = map[atom.Atom]bool{
	atom.Head:   true,
	atom.Style:  true,
	atom.Script: true,
	atom.Title:  true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Tr: true, atom.Table: true,
}

// PlainText renders markup to plain text. Inputs that are not HTML are
// returned as-is, since the tokenizer treats them as a single text node.
func PlainText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	depth := 0 // nesting inside skipped elements

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimRight(b.String(), "\n")
		case html.TextToken:
			if depth == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipped[a] {
				if tt == html.StartTagToken {
					depth++
				}
				continue
			}
			if depth > 0 {
				continue
			}
			switch {
			case a == atom.Br:
				b.WriteByte('\n')
			case a == atom.Img:
				b.WriteString(ObjectReplacement)
			case blocks[a]:
				newline(&b)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipped[a] {
				if depth > 0 {
					depth--
				}
				continue
			}
			if depth == 0 && blocks[a] {
				newline(&b)
			}
		}
	}
}

// newline starts a new line unless the builder is empty or already at one.
func newline(b *strings.Builder) {
	s := b.String()
	if s == "" || strings.HasSuffix(s, "\n") {
		return
	}
	b.WriteByte('\n')
}

// IsBlank reports whether markup has no visible content: its plain text is
// empty or whitespace only (non-breaking spaces included).
func IsBlank(markup string) bool {
	return strings.TrimSpace(PlainText(markup)) == ""
}
