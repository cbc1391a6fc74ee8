package menu

import "strings"

// Tab selects which half of the catalog is being browsed.
type Tab string

const (
	TabDrinks Tab = "drinks"
	TabFoods  Tab = "foods"
)

// Accordion holds which single category is open and which subfolder paths are
// open beneath it. Pure view state; never persisted.
type Accordion struct {
	OpenCategory  string
	OpenPaths     map[string]struct{}
	OpenFoodGroup string
}

func NewAccordion() *Accordion {
	return &Accordion{OpenPaths: map[string]struct{}{}}
}

// ToggleCategory opens the category (or closes it when already open) and fully
// resets all subfolder state.
func (a *Accordion) ToggleCategory(key string) {
	if a.OpenCategory == key {
		a.OpenCategory = ""
	} else {
		a.OpenCategory = key
	}
	a.OpenPaths = map[string]struct{}{}
	a.OpenFoodGroup = ""
}

// TogglePath opens a subfolder path, closing every sibling that shares its
// immediate parent together with the siblings' descendants. Toggling an open
// path closes it and its descendants. At most one path per level stays open.
func (a *Accordion) TogglePath(path string) {
	if _, open := a.OpenPaths[path]; open {
		a.removeSubtree(path)
		return
	}

	parent := parentOf(path)
	for p := range a.OpenPaths {
		if p != path && parentOf(p) == parent {
			a.removeSubtree(p)
		}
	}

	a.OpenPaths[path] = struct{}{}
}

// ToggleFoodGroup opens a single food subgroup, replacing any other open one.
func (a *Accordion) ToggleFoodGroup(key string) {
	if a.OpenFoodGroup == key {
		a.OpenFoodGroup = ""
		return
	}
	a.OpenFoodGroup = key
}

func (a *Accordion) removeSubtree(path string) {
	for p := range a.OpenPaths {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(a.OpenPaths, p)
		}
	}
}

func parentOf(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}

// ========================= row flattening =========================

type RowKind int

const (
	RowCategory RowKind = iota
	RowSubcategory
	RowItem
)

// Row is one display line of the flattened accordion view.
type Row struct {
	Kind  RowKind `json:"kind"`
	Key   string  `json:"key,omitempty"`
	Title string  `json:"title,omitempty"`
	Depth int     `json:"depth,omitempty"`
	Item  *Item   `json:"item,omitempty"`
}

// Rows projects the catalog plus accordion state into a flat ordered row list.
// Side-effect free and stable for identical inputs.
func (c *Catalog) Rows(tab Tab, acc *Accordion) []Row {
	if acc == nil {
		acc = NewAccordion()
	}

	var rows []Row
	if tab == TabFoods {
		for _, cat := range c.Foods {
			rows = append(rows, Row{Kind: RowCategory, Key: cat.Key, Title: cat.Title})
			if acc.OpenCategory != cat.Key {
				continue
			}
			if len(cat.Groups) > 0 {
				for _, g := range cat.Groups {
					rows = append(rows, Row{Kind: RowSubcategory, Key: g.Key, Title: g.Title, Depth: 1})
					if acc.OpenFoodGroup == g.Key {
						rows = appendItemRows(rows, g.Items)
					}
				}
				continue
			}
			rows = appendItemRows(rows, cat.Items)
		}
		return rows
	}

	for _, root := range c.Drinks {
		rows = append(rows, Row{Kind: RowCategory, Key: root.Key, Title: root.Title})
		if acc.OpenCategory != root.Key {
			continue
		}
		rows = appendDrinkNodeRows(rows, root, 1, root.Key, acc)
		rows = appendItemRows(rows, root.Items)
	}
	return rows
}

func appendDrinkNodeRows(rows []Row, node *Node, depth int, parentPath string, acc *Accordion) []Row {
	for _, childKey := range node.ChildKeys {
		child := node.Children[childKey]
		path := parentPath + "/" + childKey
		rows = append(rows, Row{Kind: RowSubcategory, Key: path, Title: child.Title, Depth: depth})

		if _, open := acc.OpenPaths[path]; open {
			rows = appendDrinkNodeRows(rows, child, depth+1, path, acc)
			rows = appendItemRows(rows, child.Items)
		}
	}
	return rows
}

func appendItemRows(rows []Row, items []Item) []Row {
	for i := range items {
		rows = append(rows, Row{Kind: RowItem, Item: &items[i]})
	}
	return rows
}
