package ui

import (
	"fmt"
	"regexp"
	"strings"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// CategoryLine renders a category header for the flat `ls` view.
func CategoryLine(name string, itemCount int) string {
	t := Current()
	count := fmt.Sprintf("(%d)", itemCount)
	return fmt.Sprintf("%s %s %s",
		C(t.Accent, t.CategoryMark), C(t.Title, name), C(t.Muted, count))
}

// ItemLine renders one item row: index, bullet, quantity badge, name.
func ItemLine(index int, quantity, name string) string {
	t := Current()
	idx := fmt.Sprintf("%2d.", index)
	return fmt.Sprintf("%s %s %s %s",
		C(dim, idx), C(t.Muted, t.ItemBullet), C(t.Qty, quantity+"×"), name)
}

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	t := Current()
	// compute visible width
	maxw := 0
	for _, ln := range lines {
		w := len([]rune(stripANSI(ln)))
		if w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		vis := len([]rune(stripANSI(s)))
		if vis < maxw {
			s = s + strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	leftPad := " "
	fmt.Println(t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR)
	for _, ln := range lines {
		fmt.Println(t.V + leftPad + pad(ln) + " " + t.V)
	}
	fmt.Println(t.CornerBL + strings.Repeat(t.H, maxw+2) + t.CornerBR)
}
