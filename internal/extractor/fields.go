package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the value type of a labeled field.
type Kind int

const (
	KindText Kind = iota
	KindNumber
)

// Field declares one labeled section of free-text model output. Each alias
// is a case-insensitive regular expression fragment matching one tolerated
// spelling of the label; the label may also appear wrapped in braces
// ("{score}:") or markdown emphasis ("**Score**:").
type Field struct {
	Name     string
	Aliases  []string
	Kind     Kind
	Trailing bool
}

var (
	blankLine    = regexp.MustCompile(`\n[ \t\r]*\n`)
	labelOrdinal = regexp.MustCompile(`[0-9]+`)
)

type label struct {
	field      int
	start, end int
}

func compileLabels(fields []Field) *regexp.Regexp {
	groups := make([]string, 0, len(fields))
	for i, f := range fields {
		aliases := make([]string, 0, len(f.Aliases)+1)
		for _, a := range append([]string{regexp.QuoteMeta(f.Name)}, f.Aliases...) {
			if _, err := regexp.Compile(a); err != nil {
				a = regexp.QuoteMeta(a)
			}
			aliases = append(aliases, a)
		}
		alt := strings.Join(aliases, "|")
		groups = append(groups, fmt.Sprintf(`(?P<f%d>(?:\{(?:%s)\}|(?:%s))\**[ \t]*[:：])`, i, alt, alt))
	}
	return regexp.MustCompile(`(?i)` + strings.Join(groups, "|"))
}

func findLabels(re *regexp.Regexp, text string, nfields int) []label {
	groups := make([]int, nfields)
	for i := range nfields {
		groups[i] = re.SubexpIndex(fmt.Sprintf("f%d", i))
	}

	var labels []label
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if !atWordStart(text, start) {
			continue
		}
		for i, g := range groups {
			if m[2*g] >= 0 {
				labels = append(labels, label{field: i, start: start, end: end})
				break
			}
		}
	}
	return labels
}

func atWordStart(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

func parseFallback(text string, fields []Field) FallbackParse {
	out := newFallbackParse()
	if len(fields) == 0 || text == "" {
		return out
	}

	re := compileLabels(fields)
	labels := findLabels(re, text, len(fields))

	for i, l := range labels {
		f := fields[l.field]

		valueEnd := len(text)
		if f.Trailing && f.Kind == KindText {
			if loc := blankLine.FindStringIndex(text[l.end:]); loc != nil {
				valueEnd = l.end + loc[0]
			}
			out.Trailing[f.Name] = cleanValue(text[l.end:valueEnd])
			continue
		}
		if i+1 < len(labels) {
			valueEnd = labels[i+1].start
		}
		value := text[l.end:valueEnd]
		out.Ordinals[f.Name] = append(out.Ordinals[f.Name], ordinal(text[l.start:l.end]))

		switch f.Kind {
		case KindNumber:
			v, _ := ParseLeadingNumber(value)
			out.Numbers[f.Name] = append(out.Numbers[f.Name], v)
		default:
			out.Texts[f.Name] = append(out.Texts[f.Name], cleanValue(value))
		}
	}

	return out
}

// ordinal returns the number written in a label ("Category 2:"), or 0.
func ordinal(label string) int {
	n, err := strconv.Atoi(labelOrdinal.FindString(label))
	if err != nil {
		return 0
	}
	return n
}

func cleanValue(s string) string {
	return strings.Trim(strings.TrimSpace(s), "*_ \t\r\n")
}
