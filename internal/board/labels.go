package board

import "strings"

// LabelColors is the palette a card label may be picked from.
var LabelColors = []string{
	"#43C86F",
	"#0C90F1",
	"#F72400",
	"#7A8089",
	"#D57C1D",
	"#770000",
	"#0022F8",
}

// NormalizeLabelColor returns the palette entry matching c, ignoring case and
// an optional leading '#'. An empty c clears the label.
func NormalizeLabelColor(c string) (string, bool) {
	c = strings.TrimSpace(c)
	if c == "" {
		return "", true
	}
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	for _, p := range LabelColors {
		if strings.EqualFold(p, c) {
			return p, true
		}
	}
	return "", false
}
