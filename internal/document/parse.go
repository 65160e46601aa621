// Package document turns free-form plan text into deliverable artifacts: a
// standalone PDF and an HTML rendition for the e-mail body.
package document

import (
	"regexp"
	"strings"
)

// Kind classifies one rendered block.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading1
	KindHeading2
	KindBullet
	KindSpacer
)

func (k Kind) String() string {
	switch k {
	case KindHeading1:
		return "h1"
	case KindHeading2:
		return "h2"
	case KindBullet:
		return "bullet"
	case KindSpacer:
		return "spacer"
	default:
		return "paragraph"
	}
}

// Block is one classified line of plan text.
type Block struct {
	Kind Kind
	Text string
}

var bulletMarkers = []string{"- ", "* ", "• "}

var (
	strongRe = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	emRe     = regexp.MustCompile(`(^|[\s(])[*_]([^\s*_](?:[^*_]*[^\s*_])?)[*_]`)
)

// Parse classifies text line by line. Runs of blank lines collapse into a
// single spacer and leading or trailing spacers are dropped.
func Parse(text string) []Block {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []Block
	for _, raw := range strings.Split(text, "\n") {
		b := classify(raw)
		if b.Kind == KindSpacer && (len(out) == 0 || out[len(out)-1].Kind == KindSpacer) {
			continue
		}
		out = append(out, b)
	}
	for len(out) > 0 && out[len(out)-1].Kind == KindSpacer {
		out = out[:len(out)-1]
	}
	return out
}

func classify(raw string) Block {
	line := strings.TrimSpace(raw)
	if line == "" || isRule(line) {
		return Block{Kind: KindSpacer}
	}

	if strings.HasPrefix(line, "#") {
		level := len(line) - len(strings.TrimLeft(line, "#"))
		rest := line[level:]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			text := StripEmphasis(strings.TrimSpace(strings.TrimRight(rest, "# ")))
			if text == "" {
				return Block{Kind: KindSpacer}
			}
			if level == 1 {
				return Block{Kind: KindHeading1, Text: text}
			}
			return Block{Kind: KindHeading2, Text: text}
		}
	}

	for _, m := range bulletMarkers {
		if strings.HasPrefix(line, m) {
			return Block{Kind: KindBullet, Text: StripEmphasis(strings.TrimSpace(line[len(m):]))}
		}
	}
	return Block{Kind: KindParagraph, Text: StripEmphasis(line)}
}

// StripEmphasis removes **strong**, __strong__, *em* and _em_ markup while
// leaving lone asterisks and underscores inside words alone.
func StripEmphasis(s string) string {
	s = strongRe.ReplaceAllString(s, "$2")
	s = emRe.ReplaceAllString(s, "$1$2")
	return strings.TrimSpace(strings.NewReplacer("**", "", "__", "").Replace(s))
}

func isRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	c := line[0]
	if c != '-' && c != '*' && c != '_' && c != '=' {
		return false
	}
	return strings.Trim(line, string(c)+" ") == ""
}
