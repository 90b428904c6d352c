// Package menu splits a generated weekly-menu answer into per-menu segments.
//
// The expected grammar is a sequence of blocks, each opened by a "MENU <n>:"
// line and holding a "Boodschappenlijst:" (shopping list) and a "Bereiding:"
// (preparation) section. Markers are matched case-insensitively and anything
// the model adds around them is tolerated.
package menu

import (
	"regexp"
	"strings"
)

var (
	menuMarker    = regexp.MustCompile(`(?i)MENU[ \t]*\d+[ \t]*:`)
	sectionMarker = regexp.MustCompile(`(?i)\b(boodschappenlijst|bereiding(?:swijze)?)\s*:`)
)

// Segment is one menu. Empty fields are absent sections.
type Segment struct {
	Title        string
	ShoppingList string
	Preparation  string
}

// Plan is a parsed answer.
type Plan struct {
	// Preamble is text found before the first menu marker.
	Preamble string
	Segments []Segment
}

// Empty reports whether no menu marker was found.
func (p Plan) Empty() bool {
	return len(p.Segments) == 0
}

// Parse extracts the menus from raw in source order. A blob without menu
// markers yields an empty Plan.
func Parse(raw string) Plan {
	locs := menuMarker.FindAllStringIndex(raw, -1)
	if len(locs) == 0 {
		return Plan{}
	}

	plan := Plan{Preamble: strings.TrimSpace(raw[:locs[0][0]])}
	for i, loc := range locs {
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		chunk := raw[loc[0]:end]
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		plan.Segments = append(plan.Segments, parseChunk(chunk, loc[1]-loc[0]))
	}
	return plan
}

type section struct {
	kind       string
	start, end int
}

// parseChunk reads one menu block. markerLen is the length of the leading
// "MENU n:" marker.
func parseChunk(chunk string, markerLen int) Segment {
	title, _, _ := strings.Cut(chunk, "\n")
	seg := Segment{Title: strings.TrimSpace(title)}

	var sections []section
	for _, m := range sectionMarker.FindAllStringSubmatchIndex(chunk[markerLen:], -1) {
		kind := strings.ToLower(chunk[markerLen+m[2] : markerLen+m[3]])
		if strings.HasPrefix(kind, "bereiding") {
			kind = "bereiding"
		}
		sections = append(sections, section{kind: kind, start: markerLen + m[0], end: markerLen + m[1]})
	}

	seg.ShoppingList = sectionBody(chunk, sections, "boodschappenlijst")
	seg.Preparation = sectionBody(chunk, sections, "bereiding")
	return seg
}

// sectionBody returns the text after the first section of the given kind up
// to the next section marker or the end of the chunk.
func sectionBody(chunk string, sections []section, kind string) string {
	for i, s := range sections {
		if s.kind != kind {
			continue
		}
		end := len(chunk)
		if i+1 < len(sections) {
			end = sections[i+1].start
		}
		return strings.TrimSpace(chunk[s.end:end])
	}
	return ""
}
