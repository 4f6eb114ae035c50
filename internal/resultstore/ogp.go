package resultstore

import (
	"fmt"
	"html"
	"io"
	"sort"
)

// RenderOGPImage writes a hand-rolled SVG OGP card summarizing result,
// grounded on the teacher's srv/ogp.go (no SVG library dependency
// anywhere in the retrieval pack, so this stays template-string SVG
// like the teacher's, just re-themed).
func RenderOGPImage(w io.Writer, result *Result) error {
	title := fmt.Sprintf("%d-word chain", len(result.History))
	if result.Winner != "" {
		title = fmt.Sprintf("%s wins (%d words)", result.Winner, len(result.History))
	}

	type row struct {
		Name  string
		Lives int
	}
	rows := make([]row, 0, len(result.Lives))
	for name, lives := range result.Lives {
		rows = append(rows, row{name, lives})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Lives > rows[j].Lives })

	scoreRows := ""
	for i, rw := range rows {
		if i >= 4 {
			break
		}
		y := 130 + i*36
		bg := "#334155"
		if i == 0 {
			bg = "#f59e0b"
		}
		scoreRows += fmt.Sprintf(
			`<rect x="40" y="%d" width="250" height="30" rx="6" fill="%s"/>`+
				`<text x="56" y="%d" font-size="15" font-weight="600" fill="#e2e8f0">%s</text>`+
				`<text x="270" y="%d" text-anchor="end" font-size="15" font-weight="700" fill="#fde68a">%d lives</text>`,
			y, bg, y+21, html.EscapeString(rw.Name), y+21, rw.Lives,
		)
	}

	chainLines := wrapChain(historyWords(result.History), 16, 4)
	chainSVG := ""
	for i, line := range chainLines {
		y := 145 + i*28
		chainSVG += fmt.Sprintf(
			`<text x="480" y="%d" text-anchor="middle" font-size="15" fill="#fdba74" font-weight="500">%s</text>`,
			y, html.EscapeString(line),
		)
	}

	svg := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="630" viewBox="0 0 640 330">
  <defs>
    <linearGradient id="bg" x1="0" y1="0" x2="1" y2="1">
      <stop offset="0%%" stop-color="#be123c"/>
      <stop offset="100%%" stop-color="#f97316"/>
    </linearGradient>
  </defs>
  <rect width="640" height="330" fill="url(#bg)"/>
  <rect x="16" y="16" width="608" height="298" rx="16" fill="#0f172a" opacity="0.95"/>
  <text x="320" y="60" text-anchor="middle" font-size="24" font-weight="900" fill="#fff" font-family="sans-serif">Bomb Party - %s</text>
  %s
  %s
</svg>`, html.EscapeString(title), scoreRows, chainSVG)

	_, err := io.WriteString(w, svg)
	return err
}

func historyWords(history []WordEntry) []string {
	words := make([]string, len(history))
	for i, h := range history {
		words[i] = h.Word
	}
	return words
}

// wrapChain greedily packs words into lines of at most width characters,
// up to maxLines, per the teacher's wrapChain helper.
func wrapChain(words []string, width, maxLines int) []string {
	var lines []string
	var cur string
	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if len([]rune(candidate)) > width && cur != "" {
			lines = append(lines, cur)
			cur = w
			if len(lines) == maxLines {
				return lines
			}
			continue
		}
		cur = candidate
	}
	if cur != "" && len(lines) < maxLines {
		lines = append(lines, cur)
	}
	return lines
}
