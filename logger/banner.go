package logger

import "strings"

const DefaultBannerWidth = 48

// Banner centers label between runs of '#'. Each side gets (width-len)/2
// characters, the left side one more when the label length is odd, and the
// label is surrounded by single spaces. Labels wider than width get no padding.
func Banner(label string, width int) string {
	padding := (width - len(label)) / 2
	if padding < 0 {
		padding = 0
	}

	left := padding
	if len(label)%2 != 0 {
		left++
	}

	var b strings.Builder
	b.Grow(left + padding + len(label) + 2)
	b.WriteString(strings.Repeat("#", left))
	b.WriteString(" ")
	b.WriteString(label)
	b.WriteString(" ")
	b.WriteString(strings.Repeat("#", padding))
	return b.String()
}
