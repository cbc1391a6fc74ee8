package menu

import (
	"strings"
	"unicode"
)

// knownTitles maps raw document keys to their display titles. Keys missing
// here fall through to the generic prettifier.
var knownTitles = map[string]string{
	"alkoholfrei":         "Alkoholfrei",
	"bier":                "Bier",
	"alkoholfreie_biere":  "Alkoholfreie Biere",
	"wein_sekt":           "Wein & Sekt",
	"longdrinks_cocktail": "Longdrinks & Cocktails",
	"schnaps":             "Spirituosen",
	"heissgetraenke":      "Heißgetränke",

	"wasser":                "Wasser",
	"softdrinks":            "Softdrinks",
	"saefte":                "Säfte",
	"saftschorlen":          "Saftschorlen",
	"erfrischungsgetraenk":  "Erfrischungsgetränke",
	"erfrischungsgetraenke": "Erfrischungsgetränke",

	"sekt":                 "Sekt",
	"wein_rot":             "Rotwein",
	"wein_weiss":           "Weißwein",
	"x_wein_rose":          "Roséwein",
	"weinschorle_rot":      "Rotweinschorle",
	"weinschorle_weiss":    "Weißweinschorle",
	"x_weinschorle_rose":   "Roséweinschorle",

	"cocktails":  "Cocktails",
	"longdrinks": "Longdrinks",

	"kaffee":               "Kaffeespezialitäten",
	"kaffeespezialitaeten": "Kaffeespezialitäten",
	"tee":                  "Tee",
}

// umlautPairs restores compound spellings to single accented characters.
// Order matters: uppercase pairs first so "Ae" is not split by the "ae" pass.
var umlautPairs = []struct{ from, to string }{
	{"Ae", "Ä"}, {"Oe", "Ö"}, {"Ue", "Ü"},
	{"ae", "ä"}, {"oe", "ö"}, {"ue", "ü"},
}

// Title converts a raw document key into a display title: known keys come
// from the lookup table, unknown keys get underscores replaced, umlauts
// reconstructed and each word capitalized.
func Title(key string) string {
	if t, ok := knownTitles[key]; ok {
		return t
	}

	base := strings.ReplaceAll(key, "_", " ")
	return titleCase(applyUmlauts(base))
}

func applyUmlauts(s string) string {
	for _, p := range umlautPairs {
		s = strings.ReplaceAll(s, p.from, p.to)
	}
	return s
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToTitle(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
