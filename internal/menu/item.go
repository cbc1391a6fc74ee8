package menu

import "sort"

// Department and course tags travel with every order line routed from the
// menu. They are derived from where an item lives in the menu tree, not from
// transient client state.
const (
	DeptBar     = "BAR"
	DeptKitchen = "KITCHEN"

	CourseStarter = "STARTER"
	CourseMain    = "MAIN"
	CourseDessert = "DESSERT"
)

// Size is one orderable portion of an item, e.g. ("0,3l", 2.80).
type Size struct {
	Label string  `json:"label" bson:"label"`
	Price float64 `json:"price" bson:"price"`
}

// Item is a single orderable menu entry. When Sizes is non-empty the sizes are
// sorted ascending by price and Price holds the minimum size price.
type Item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Sizes []Size  `json:"sizes,omitempty"`
}

// Route tells the order module where an item is produced and, for kitchen
// items, which course it belongs to.
type Route struct {
	Dept   string `json:"dept"`
	Course string `json:"course,omitempty"`
}

// itemFromLeaf builds an Item from a raw leaf document. Returns false when the
// leaf has no usable name.
func itemFromLeaf(id string, leaf map[string]any) (Item, bool) {
	name, ok := leaf["name"].(string)
	if !ok || name == "" {
		return Item{}, false
	}

	if raw, ok := leaf["sizes"]; ok {
		sizes := parseSizes(raw)
		if len(sizes) > 0 {
			sort.SliceStable(sizes, func(i, j int) bool { return sizes[i].Price < sizes[j].Price })
			return Item{ID: id, Name: name, Price: sizes[0].Price, Sizes: sizes}, true
		}
	}

	return Item{ID: id, Name: name, Price: asFloat(leaf["price"])}, true
}

// parseSizes accepts either a list of size documents or a keyed collection of
// them; document stores deliver both shapes.
func parseSizes(raw any) []Size {
	var out []Size
	add := func(v any) {
		doc, ok := v.(map[string]any)
		if !ok {
			return
		}
		label, ok := doc["label"].(string)
		if !ok || label == "" {
			return
		}
		out = append(out, Size{Label: label, Price: asFloat(doc["price"])})
	}

	switch vs := raw.(type) {
	case []any:
		for _, v := range vs {
			add(v)
		}
	case map[string]any:
		for _, v := range vs {
			add(v)
		}
	}
	return out
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
