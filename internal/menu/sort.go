package menu

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// unrankedIndex sorts keys missing from a priority list after every ranked key.
const unrankedIndex = 999

// SortRules maps a structural path in the menu tree (e.g. "drinks/wein_sekt")
// to the fixed ordering of its child keys. Paths without an entry sort their
// children by collated display name instead.
type SortRules map[string][]string

// DefaultSortRules carries the house ordering of the card.
func DefaultSortRules() SortRules {
	return SortRules{
		"drinks": {
			"alkoholfrei",
			"bier",
			"alkoholfreie_biere",
			"wein_sekt",
			"longdrinks_cocktail",
			"schnaps",
			"heissgetraenke",
		},
		"drinks/alkoholfrei": {
			"wasser", "softdrinks", "saefte", "saftschorlen",
			"erfrischungsgetraenk", "erfrischungsgetraenke",
		},
		"drinks/wein_sekt": {
			"sekt", "wein_rot", "wein_weiss", "weinschorle_rot", "weinschorle_weiss",
		},
		"drinks/longdrinks_cocktail": {"longdrinks", "cocktails"},
		"drinks/heissgetraenke":      {"kaffee", "tee", "kaffeespezialitaeten"},
		"drinks/bier/bier": {
			"krombacher_pils",
			"krombacher_radler",
			"krombacher_diesel",
			"koestritzer_dunkel",
			"hefeweizen",
		},
		"drinks/alkoholfreie_biere/alkoholfrei": {"krombacher_0_0", "hefeweizen_0_0"},
		"foods": {
			"vorspeisen",
			"suppen",
			"salate",
			"hauptspeisen",
			"nachspeisen",
			"kindergerichte",
			"menues",
			"Kleinigkeiten",
		},
		"foods/hauptspeisen": {"Spezial", "huhn", "rind", "fisch", "schwein", "veg_vegan"},
	}
}

func priorityIndex(list []string, key string) int {
	for i, k := range list {
		if k == key {
			return i
		}
	}
	return unrankedIndex
}

// sortKeysForPath orders child keys for the given path: by the fixed priority
// list when one exists (unknown keys after known ones, ties by key), otherwise
// by collated key.
func (r SortRules) sortKeysForPath(path string, keys []string, col *collate.Collator) []string {
	sorted := append([]string(nil), keys...)

	if list, ok := r[path]; ok {
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := priorityIndex(list, sorted[i]), priorityIndex(list, sorted[j])
			if a != b {
				return a < b
			}
			return sorted[i] < sorted[j]
		})
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return col.CompareString(sorted[i], sorted[j]) < 0
	})
	return sorted
}

// ranked reports whether the path has a fixed priority list; items under such
// paths keep the prescribed order instead of being re-collated.
func (r SortRules) ranked(path string) bool {
	_, ok := r[path]
	return ok
}

// newCollator builds a German primary-strength collator: case and diacritic
// differences do not affect ordering ("Äpfel" and "apfel" compare equal).
// Collators buffer internally, so every build pass gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.German, collate.Loose)
}

func sortItemsByName(items []Item, col *collate.Collator) {
	sort.SliceStable(items, func(i, j int) bool {
		return col.CompareString(items[i].Name, items[j].Name) < 0
	})
}
