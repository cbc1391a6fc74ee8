package menu

import (
	"log/slog"

	"golang.org/x/text/collate"

	"github.com/muehlenhof/pos/pkg/logging"
)

// mixedGroupKey is where direct items of a food category land when the
// category also carries subgroups. The source data is not supposed to mix the
// two shapes, but if it does, nothing may be dropped silently.
const mixedGroupKey = "sonstiges"

// Node is one branch of the drinks tree. ChildKeys fixes the display order of
// Children; Items are the leaves stored directly at this level.
type Node struct {
	Key       string           `json:"key"`
	Title     string           `json:"title"`
	ChildKeys []string         `json:"child_keys,omitempty"`
	Children  map[string]*Node `json:"children,omitempty"`
	Items     []Item           `json:"items,omitempty"`
}

func newNode(key string) *Node {
	return &Node{Key: key, Title: Title(key), Children: map[string]*Node{}}
}

func (n *Node) child(key string) *Node {
	if c, ok := n.Children[key]; ok {
		return c
	}
	c := newNode(key)
	n.Children[key] = c
	n.ChildKeys = append(n.ChildKeys, key)
	return c
}

// FoodGroup is one named subgroup of a food category.
type FoodGroup struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// FoodCategory is a top-level food section: either a flat item list or a
// single level of subgroups, never both.
type FoodCategory struct {
	Key    string      `json:"key"`
	Title  string      `json:"title"`
	Items  []Item      `json:"items,omitempty"`
	Groups []FoodGroup `json:"groups,omitempty"`
}

// Catalog is the display-ready menu rebuilt wholesale from every snapshot of
// the raw menu document.
type Catalog struct {
	Drinks []*Node        `json:"drinks"`
	Foods  []FoodCategory `json:"foods"`

	routes map[string]Route
	items  map[string]Item
}

// RouteFor returns the department and course an item is produced by, derived
// from the item's position in the menu tree.
func (c *Catalog) RouteFor(itemID string) (Route, bool) {
	r, ok := c.routes[itemID]
	return r, ok
}

// ItemByID looks an orderable item up by its key in the menu tree.
func (c *Catalog) ItemByID(itemID string) (Item, bool) {
	it, ok := c.items[itemID]
	return it, ok
}

// BuildCatalog turns a raw nested menu document into an ordered, display-ready
// catalog. The document is never mutated; a new Catalog replaces the previous
// one entirely.
func BuildCatalog(doc map[string]any, rules SortRules, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = logging.Noop()
	}
	if rules == nil {
		rules = DefaultSortRules()
	}

	col := newCollator()
	cat := &Catalog{routes: map[string]Route{}, items: map[string]Item{}}

	if drinks, ok := doc["drinks"].(map[string]any); ok {
		cat.buildDrinks(drinks, rules, col)
	}
	if foods, ok := doc["foods"].(map[string]any); ok {
		cat.buildFoods(foods, rules, col, logger)
	}

	return cat
}

// isLeaf classifies a raw node: a leaf has a name and either a scalar price or
// a sizes collection; everything else is a group to recurse into.
func isLeaf(node map[string]any) bool {
	if _, ok := node["name"]; !ok {
		return false
	}
	if _, ok := node["price"]; ok {
		return true
	}
	_, ok := node["sizes"]
	return ok
}

// isFoodItem is the stricter leaf test used on the foods side, where sized
// items do not occur.
func isFoodItem(node map[string]any) bool {
	if _, ok := node["name"]; !ok {
		return false
	}
	_, ok := node["price"]
	return ok
}

func childDocs(doc map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(doc))
	for k, v := range doc {
		if m, ok := v.(map[string]any); ok {
			out[k] = m
		}
	}
	return out
}

func keysOf(docs map[string]map[string]any) []string {
	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	return keys
}

// ========================= drinks =========================

func (c *Catalog) buildDrinks(doc map[string]any, rules SortRules, col *collate.Collator) {
	docs := childDocs(doc)
	for _, key := range rules.sortKeysForPath("drinks", keysOf(docs), col) {
		root := newNode(key)
		c.fillDrinkNode(docs[key], root, "drinks/"+key, rules, col)
		c.Drinks = append(c.Drinks, root)
	}
}

func (c *Catalog) fillDrinkNode(doc map[string]any, target *Node, path string, rules SortRules, col *collate.Collator) {
	docs := childDocs(doc)
	for _, key := range rules.sortKeysForPath(path, keysOf(docs), col) {
		child := docs[key]
		if isLeaf(child) {
			item, ok := itemFromLeaf(key, child)
			if !ok {
				continue
			}
			target.Items = append(target.Items, item)
			c.routes[item.ID] = Route{Dept: DeptBar}
			c.items[item.ID] = item
			continue
		}
		c.fillDrinkNode(child, target.child(key), path+"/"+key, rules, col)
	}

	if !rules.ranked(path) {
		sortItemsByName(target.Items, col)
	}
}

// ========================= foods =========================

// CourseForCategory maps a food category key to the kitchen course its items
// belong to.
func CourseForCategory(key string) string {
	switch key {
	case "vorspeisen", "suppen":
		return CourseStarter
	case "nachspeisen":
		return CourseDessert
	default:
		return CourseMain
	}
}

func (c *Catalog) buildFoods(doc map[string]any, rules SortRules, col *collate.Collator, logger *slog.Logger) {
	docs := childDocs(doc)
	for _, key := range rules.sortKeysForPath("foods", keysOf(docs), col) {
		c.Foods = append(c.Foods, c.buildFoodCategory(key, docs[key], rules, col, logger))
	}
}

func (c *Catalog) buildFoodCategory(key string, doc map[string]any, rules SortRules, col *collate.Collator, logger *slog.Logger) FoodCategory {
	course := CourseForCategory(key)
	cat := FoodCategory{Key: key, Title: Title(key)}

	docs := childDocs(doc)
	var direct []Item
	groups := map[string]map[string]any{}

	for childKey, child := range docs {
		if isFoodItem(child) {
			if item, ok := itemFromLeaf(childKey, child); ok {
				direct = append(direct, item)
			}
			continue
		}
		groups[childKey] = child
	}

	if len(groups) == 0 {
		cat.Items = c.collectFoodItems(doc, course, col)
		return cat
	}

	if len(direct) > 0 {
		// Mixed shape: keep the direct items in a catch-all subgroup rather
		// than dropping them.
		logger.Warn("food category mixes direct items and subgroups",
			"category", key, "direct_items", len(direct))
		sortItemsByName(direct, col)
		for _, item := range direct {
			c.routes[item.ID] = Route{Dept: DeptKitchen, Course: course}
			c.items[item.ID] = item
		}
	}

	for _, groupKey := range rules.sortKeysForPath("foods/"+key, keysOf(groups), col) {
		cat.Groups = append(cat.Groups, FoodGroup{
			Key:   groupKey,
			Title: Title(groupKey),
			Items: c.collectFoodItems(groups[groupKey], course, col),
		})
	}

	if len(direct) > 0 {
		cat.Groups = append(cat.Groups, FoodGroup{
			Key:   mixedGroupKey,
			Title: Title(mixedGroupKey),
			Items: direct,
		})
	}

	return cat
}

// collectFoodItems gathers every item node in the subtree, flattened and
// collated by name.
func (c *Catalog) collectFoodItems(doc map[string]any, course string, col *collate.Collator) []Item {
	var out []Item
	for key, child := range childDocs(doc) {
		if isFoodItem(child) {
			item, ok := itemFromLeaf(key, child)
			if !ok {
				continue
			}
			out = append(out, item)
			c.routes[item.ID] = Route{Dept: DeptKitchen, Course: course}
			c.items[item.ID] = item
			continue
		}
		out = append(out, c.collectFoodItems(child, course, col)...)
	}
	sortItemsByName(out, col)
	return out
}
