package compiler

import (
	"regexp"
	"strings"

	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/zerr"
)

var (
	commentRe     = regexp.MustCompile(`<!--[\s\S]*?-->`)
	rootTagRe     = regexp.MustCompile(`(?m)^<([a-zA-Z][\w-]*)(\s[^>]*?)?(/?)>`)
	styleRe       = regexp.MustCompile(`(?is)<style(?:\s[^>]*)?>(.*?)</style\s*>`)
	scriptRe      = regexp.MustCompile(`(?is)<script(?:\s[^>]*)?>(.*?)</script\s*>`)
	spaceRe       = regexp.MustCompile(`\s+`)
	betweenTagsRe = regexp.MustCompile(`>\s+<`)
)

// rootTag is a custom tag definition opened at the start of a line.
type rootTag struct {
	name  string
	attrs string
	body  string
}

// segment is either passthrough text or a root tag.
type segment struct {
	text string
	tag  *rootTag
}

// splitRoots cuts src into root tag definitions and the text between them.
func splitRoots(src string) ([]segment, error) {
	var segs []segment
	pos := 0

	for _, loc := range rootTagRe.FindAllStringSubmatchIndex(src, -1) {
		start, openEnd := loc[0], loc[1]
		if start < pos {
			continue
		}

		name := src[loc[2]:loc[3]]
		if name == "script" || name == "style" {
			continue
		}

		var attrs string
		if loc[4] >= 0 {
			attrs = src[loc[4]:loc[5]]
		}

		if start > pos {
			segs = append(segs, segment{text: src[pos:start]})
		}

		if loc[7] > loc[6] {
			segs = append(segs, segment{tag: &rootTag{name: name, attrs: attrs}})
			pos = openEnd
			continue
		}

		body, end, ok := findClose(src, openEnd, name)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnclosedTag, "<"+name+">"), "tag", name)
		}
		segs = append(segs, segment{tag: &rootTag{name: name, attrs: attrs, body: body}})
		pos = end
	}

	if pos < len(src) {
		segs = append(segs, segment{text: src[pos:]})
	}
	return segs, nil
}

// findClose locates the closing tag for name, either on the opening line or
// at the start of a later line. It returns the body and the offset after the closing tag.
func findClose(src string, from int, name string) (string, int, bool) {
	lineEnd := strings.IndexByte(src[from:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src) - from
	}

	sameLine := regexp.MustCompile(`</` + regexp.QuoteMeta(name) + `\s*>`)
	if loc := sameLine.FindStringIndex(src[from : from+lineEnd]); loc != nil {
		return src[from : from+loc[0]], from + loc[1], true
	}

	ownLine := regexp.MustCompile(`(?m)^</` + regexp.QuoteMeta(name) + `\s*>`)
	if loc := ownLine.FindStringIndex(src[from:]); loc != nil {
		return src[from : from+loc[0]], from + loc[1], true
	}

	return "", 0, false
}

// extractBlocks removes every match of re from body and returns the captured contents.
func extractBlocks(re *regexp.Regexp, body string) (string, []string) {
	var blocks []string
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		blocks = append(blocks, m[1])
	}
	return re.ReplaceAllString(body, ""), blocks
}

// splitUntagged separates markup from trailing JavaScript that is not wrapped in a script tag.
// Markup ends with the last line that starts or ends like a tag.
func splitUntagged(body string) (string, string) {
	lines := strings.Split(body, "\n")
	last := -1
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "<") || strings.HasSuffix(t, ">") {
			last = i
		}
	}
	return strings.Join(lines[:last+1], "\n"), strings.Join(lines[last+1:], "\n")
}

// collapse folds whitespace runs into single spaces.
func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// rewriteExpressions passes the content of every balanced {…} in s to fn.
// Expressions used as unquoted attribute values are quoted.
func rewriteExpressions(s string, fn func(string) (string, error)) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			b.WriteByte(s[i])
			continue
		}

		end := matchBrace(s, i)
		if end < 0 {
			b.WriteString(s[i:])
			break
		}

		expr, err := fn(s[i+1 : end])
		if err != nil {
			return "", err
		}

		if i > 0 && s[i-1] == '=' {
			b.WriteString(`"{` + expr + `}"`)
		} else {
			b.WriteString("{" + expr + "}")
		}
		i = end
	}

	return b.String(), nil
}

func matchBrace(s string, open int) int {
	depth := 0
	for j := open; j < len(s); j++ {
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// formatScript strips the common indentation of js and re-indents it by two spaces.
func formatScript(js string) string {
	lines := strings.Split(strings.TrimRight(js, " \t\r\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return ""
	}

	indent := -1
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		lines[i] = line
		if line == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	var b strings.Builder
	for _, line := range lines {
		if line != "" {
			b.WriteString("  ")
			b.WriteString(line[indent:])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var jsQuoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quote renders s as a single-quoted JavaScript string literal.
func quote(s string) string {
	return "'" + jsQuoter.Replace(s) + "'"
}
