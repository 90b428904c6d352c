package menu_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/edgard/menubot/internal/menu"
)

const twoMenus = `MENU 1: Pasta pesto
Boodschappenlijst:
- pasta 500 g, €1,29
- pesto, €2,10
Bereiding:
Kook de pasta en meng met pesto.

MENU 2: Kip met rijst
Boodschappenlijst:
- kipfilet 600 g, €6,99
Bereiding:
Bak de kip en serveer met rijst.`

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want menu.Plan
	}{
		{
			name: "two complete menus",
			raw:  twoMenus,
			want: menu.Plan{Segments: []menu.Segment{
				{
					Title:        "MENU 1: Pasta pesto",
					ShoppingList: "- pasta 500 g, €1,29\n- pesto, €2,10",
					Preparation:  "Kook de pasta en meng met pesto.",
				},
				{
					Title:        "MENU 2: Kip met rijst",
					ShoppingList: "- kipfilet 600 g, €6,99",
					Preparation:  "Bak de kip en serveer met rijst.",
				},
			}},
		},
		{
			name: "missing preparation",
			raw:  "MENU 1: Soep\nBoodschappenlijst:\n- tomaten",
			want: menu.Plan{Segments: []menu.Segment{
				{Title: "MENU 1: Soep", ShoppingList: "- tomaten"},
			}},
		},
		{
			name: "missing shopping list",
			raw:  "MENU 1: Soep\nBereiding:\nKoken.",
			want: menu.Plan{Segments: []menu.Segment{
				{Title: "MENU 1: Soep", Preparation: "Koken."},
			}},
		},
		{
			name: "case insensitive markers and alias",
			raw:  "menu 3 : Stamppot\nBOODSCHAPPENLIJST:\n- boerenkool\nbereidingswijze:\nStampen.",
			want: menu.Plan{Segments: []menu.Segment{
				{Title: "menu 3 : Stamppot", ShoppingList: "- boerenkool", Preparation: "Stampen."},
			}},
		},
		{
			name: "marker split over lines is not a marker",
			raw:  "MENU\n1: Pasta\nBoodschappenlijst:\n- x",
			want: menu.Plan{},
		},
		{
			name: "marker split over lines before a real one",
			raw:  "Geen MENU\n2: hier\n\nMENU 1: Pasta\nBoodschappenlijst:\n- x",
			want: menu.Plan{
				Preamble: "Geen MENU\n2: hier",
				Segments: []menu.Segment{{Title: "MENU 1: Pasta", ShoppingList: "- x"}},
			},
		},
		{
			name: "preparation before shopping list",
			raw:  "MENU 1: Wrap\nBereiding:\nVullen.\nBoodschappenlijst:\n- wraps",
			want: menu.Plan{Segments: []menu.Segment{
				{Title: "MENU 1: Wrap", ShoppingList: "- wraps", Preparation: "Vullen."},
			}},
		},
		{
			name: "preamble kept",
			raw:  "Hier zijn je menu's:\n\nMENU 1: Curry\nBoodschappenlijst: rijst\nBereiding: koken",
			want: menu.Plan{
				Preamble: "Hier zijn je menu's:",
				Segments: []menu.Segment{
					{Title: "MENU 1: Curry", ShoppingList: "rijst", Preparation: "koken"},
				},
			},
		},
		{
			name: "no markers",
			raw:  "Sorry, ik kan nu geen menu's maken.",
			want: menu.Plan{},
		},
		{
			name: "empty",
			raw:  "",
			want: menu.Plan{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, menu.Parse(tt.raw)); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseIsIdempotent(t *testing.T) {
	t.Parallel()

	first := menu.Parse(twoMenus)
	second := menu.Parse(twoMenus)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Parse() not idempotent (-first +second):\n%s", diff)
	}
	if first.Empty() {
		t.Error("Empty() = true for a plan with menus")
	}
	if !menu.Parse("geen menu's hier").Empty() {
		t.Error("Empty() = false for a blob without markers")
	}
}

func TestParseSkipsMarkerInsideTitleLine(t *testing.T) {
	t.Parallel()

	plan := menu.Parse("MENU 1: Ovenschotel Boodschappenlijst: aardappels Bereiding: bakken")
	want := []menu.Segment{{
		Title:        "MENU 1: Ovenschotel Boodschappenlijst: aardappels Bereiding: bakken",
		ShoppingList: "aardappels",
		Preparation:  "bakken",
	}}
	if diff := cmp.Diff(want, plan.Segments); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}
