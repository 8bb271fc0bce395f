package report

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // hex colour, empty for default
}

// HighlightedLine is one line of highlighted source.
type HighlightedLine struct {
	Tokens []Token
}

// Plain returns the concatenated plain text of all tokens.
func (hl HighlightedLine) Plain() string {
	var b strings.Builder
	for _, t := range hl.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// HighlightLines tokenises source with the named chroma lexer and returns
// one HighlightedLine per input line.
func HighlightLines(language string, lines []string) []HighlightedLine {
	lexer := lexers.Get(language)
	if lexer == nil {
		return plainLines(lines)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return plainLines(lines)
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	result := make([]HighlightedLine, 0, len(lines))
	current := HighlightedLine{}
	for _, token := range iterator.Tokens() {
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				result = append(result, current)
				current = HighlightedLine{}
			}
			if part != "" {
				current.Tokens = append(current.Tokens, Token{
					Text:  part,
					Color: tokenColor(style, token.Type),
				})
			}
		}
	}
	result = append(result, current)

	for len(result) < len(lines) {
		result = append(result, HighlightedLine{})
	}
	return result[:len(lines)]
}

// HighlightJSON colours a JSON document for a terminal.
func HighlightJSON(src string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, len(lines))
	for i, hl := range HighlightLines("json", lines) {
		var b strings.Builder
		for _, t := range hl.Tokens {
			if t.Color == "" {
				b.WriteString(t.Text)
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render(t.Text))
		}
		out[i] = b.String()
	}
	return strings.Join(out, "\n")
}

func plainLines(lines []string) []HighlightedLine {
	result := make([]HighlightedLine, len(lines))
	for i, line := range lines {
		result[i] = HighlightedLine{Tokens: []Token{{Text: line}}}
	}
	return result
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
