package report

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TokenKind is the kind of a narrative token.
type TokenKind string

const (
	TokenText  TokenKind = "text"
	TokenBold  TokenKind = "bold"
	TokenBreak TokenKind = "break"
)

// Token is a piece of narrative text. Text is plain, never markup.
type Token struct {
	Kind TokenKind `json:"kind"`
	Text string    `json:"text,omitempty"`
}

// ParseNarrative reads the small markup the AI is asked to produce: <b> or
// <strong> for emphasis and <br> or a newline for line breaks. Every other
// tag is dropped, keeping its text; script and style content is dropped too.
func ParseNarrative(s string) []Token {
	var (
		out     []Token
		bold    int
		skipped int
	)
	emit := func(kind TokenKind, txt string) {
		if n := len(out); n > 0 && out[n-1].Kind == kind && kind != TokenBreak {
			out[n-1].Text += txt
			return
		}
		out = append(out, Token{Kind: kind, Text: txt})
	}

	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := z.Token()
		switch tt {
		case html.TextToken:
			if skipped > 0 {
				continue
			}
			kind := TokenText
			if bold > 0 {
				kind = TokenBold
			}
			for i, line := range strings.Split(tok.Data, "\n") {
				if i > 0 {
					out = append(out, Token{Kind: TokenBreak})
				}
				if line != "" {
					emit(kind, line)
				}
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			switch tok.DataAtom {
			case atom.B, atom.Strong:
				if tt == html.StartTagToken {
					bold++
				}
			case atom.Br:
				out = append(out, Token{Kind: TokenBreak})
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skipped++
				}
			}
		case html.EndTagToken:
			switch tok.DataAtom {
			case atom.B, atom.Strong:
				if bold > 0 {
					bold--
				}
			case atom.Script, atom.Style:
				if skipped > 0 {
					skipped--
				}
			}
		}
	}
	return out
}

// PlainText flattens tokens, rendering breaks as newlines.
func PlainText(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Kind == TokenBreak {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(t.Text)
	}
	return b.String()
}
