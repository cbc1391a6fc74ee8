package menu

import (
	"testing"
)

func drinkLeaf(name string, price float64) map[string]any {
	return map[string]any{"name": name, "price": price}
}

func TestItemFromLeaf(t *testing.T) {
	t.Run("sizedItemTakesMinimumPrice", func(t *testing.T) {
		item, ok := itemFromLeaf("wasser_still", map[string]any{
			"name": "Wasser still",
			"sizes": []any{
				map[string]any{"label": "0,5l", "price": 3.2},
				map[string]any{"label": "0,3l", "price": 2.4},
			},
		})
		if !ok {
			t.Fatal("leaf rejected")
		}
		if item.Price != 2.4 {
			t.Errorf("price = %v, want minimum size price 2.4", item.Price)
		}
		if item.Sizes[0].Label != "0,3l" || item.Sizes[1].Label != "0,5l" {
			t.Errorf("sizes not ascending by price: %+v", item.Sizes)
		}
	})

	t.Run("keyedSizesAccepted", func(t *testing.T) {
		item, ok := itemFromLeaf("bier", map[string]any{
			"name": "Pils",
			"sizes": map[string]any{
				"gross": map[string]any{"label": "0,5l", "price": 4.2},
				"klein": map[string]any{"label": "0,3l", "price": 3.1},
			},
		})
		if !ok {
			t.Fatal("leaf rejected")
		}
		if len(item.Sizes) != 2 || item.Price != 3.1 {
			t.Errorf("item = %+v, want both sizes and price 3.1", item)
		}
	})

	t.Run("namelessLeafRejected", func(t *testing.T) {
		if _, ok := itemFromLeaf("x", map[string]any{"price": 1.0}); ok {
			t.Error("leaf without name accepted")
		}
	})

	t.Run("integerPriceAccepted", func(t *testing.T) {
		item, _ := itemFromLeaf("kaffee", map[string]any{"name": "Kaffee", "price": 3})
		if item.Price != 3.0 {
			t.Errorf("price = %v, want 3.0", item.Price)
		}
	})
}

func TestBuildCatalogDrinks(t *testing.T) {
	doc := map[string]any{
		"drinks": map[string]any{
			"bier": map[string]any{
				"pils": drinkLeaf("Pils", 4.2),
			},
			"alkoholfrei": map[string]any{
				"softdrinks": map[string]any{
					"cola":    drinkLeaf("Cola", 3.5),
					"apfel":   drinkLeaf("Äpfelschorle", 3.2),
					"zitrone": drinkLeaf("Zitronenlimo", 3.4),
				},
				"wasser": map[string]any{
					"still": drinkLeaf("Wasser still", 2.8),
				},
			},
			"kraeuterlimonade": map[string]any{
				"waldmeister": drinkLeaf("Waldmeister", 3.0),
			},
		},
	}

	cat := BuildCatalog(doc, nil, nil)

	t.Run("rootsFollowHouseOrder", func(t *testing.T) {
		if len(cat.Drinks) != 3 {
			t.Fatalf("got %d roots, want 3", len(cat.Drinks))
		}
		want := []string{"alkoholfrei", "bier", "kraeuterlimonade"}
		for i, key := range want {
			if cat.Drinks[i].Key != key {
				t.Errorf("root %d = %q, want %q", i, cat.Drinks[i].Key, key)
			}
		}
	})

	t.Run("rankedChildrenKeepPriorityOrder", func(t *testing.T) {
		af := cat.Drinks[0]
		if af.ChildKeys[0] != "wasser" || af.ChildKeys[1] != "softdrinks" {
			t.Errorf("child order = %v, want wasser before softdrinks", af.ChildKeys)
		}
	})

	t.Run("unrankedItemsCollatedGerman", func(t *testing.T) {
		soft := cat.Drinks[0].Children["softdrinks"]
		names := make([]string, 0, len(soft.Items))
		for _, it := range soft.Items {
			names = append(names, it.Name)
		}
		want := []string{"Äpfelschorle", "Cola", "Zitronenlimo"}
		for i, n := range want {
			if names[i] != n {
				t.Fatalf("items = %v, want %v", names, want)
			}
		}
	})

	t.Run("drinksRouteToBar", func(t *testing.T) {
		route, ok := cat.RouteFor("cola")
		if !ok || route.Dept != DeptBar || route.Course != "" {
			t.Errorf("route = %+v, ok = %v, want BAR with no course", route, ok)
		}
	})

	t.Run("itemsIndexedByKey", func(t *testing.T) {
		item, ok := cat.ItemByID("pils")
		if !ok || item.Name != "Pils" {
			t.Errorf("ItemByID(pils) = %+v, %v", item, ok)
		}
		if _, ok := cat.ItemByID("nope"); ok {
			t.Error("unknown id resolved")
		}
	})
}

func TestBuildCatalogFoods(t *testing.T) {
	doc := map[string]any{
		"foods": map[string]any{
			"vorspeisen": map[string]any{
				"carpaccio": drinkLeaf("Carpaccio", 12.5),
			},
			"hauptspeisen": map[string]any{
				"rind": map[string]any{
					"steak": drinkLeaf("Rumpsteak", 24.9),
				},
				"huhn": map[string]any{
					"schnitzel": drinkLeaf("Hähnchenschnitzel", 14.5),
				},
			},
			"nachspeisen": map[string]any{
				"eis": drinkLeaf("Gemischtes Eis", 5.5),
			},
		},
	}

	cat := BuildCatalog(doc, nil, nil)

	t.Run("categoriesFollowHouseOrder", func(t *testing.T) {
		want := []string{"vorspeisen", "hauptspeisen", "nachspeisen"}
		if len(cat.Foods) != len(want) {
			t.Fatalf("got %d categories, want %d", len(cat.Foods), len(want))
		}
		for i, key := range want {
			if cat.Foods[i].Key != key {
				t.Errorf("category %d = %q, want %q", i, cat.Foods[i].Key, key)
			}
		}
	})

	t.Run("groupedCategoryKeepsPriorityOrder", func(t *testing.T) {
		haupt := cat.Foods[1]
		if len(haupt.Groups) != 2 {
			t.Fatalf("got %d groups, want 2", len(haupt.Groups))
		}
		if haupt.Groups[0].Key != "huhn" || haupt.Groups[1].Key != "rind" {
			t.Errorf("group order = %q, %q, want huhn then rind", haupt.Groups[0].Key, haupt.Groups[1].Key)
		}
	})

	t.Run("coursesFollowCategory", func(t *testing.T) {
		cases := []struct {
			id     string
			course string
		}{
			{"carpaccio", CourseStarter},
			{"steak", CourseMain},
			{"eis", CourseDessert},
		}
		for _, tc := range cases {
			route, ok := cat.RouteFor(tc.id)
			if !ok || route.Dept != DeptKitchen || route.Course != tc.course {
				t.Errorf("RouteFor(%s) = %+v, %v, want KITCHEN/%s", tc.id, route, ok, tc.course)
			}
		}
	})
}

func TestMixedFoodCategory(t *testing.T) {
	doc := map[string]any{
		"foods": map[string]any{
			"hauptspeisen": map[string]any{
				"rind": map[string]any{
					"steak": drinkLeaf("Rumpsteak", 24.9),
				},
				"tagesgericht": drinkLeaf("Tagesgericht", 11.0),
			},
		},
	}

	cat := BuildCatalog(doc, nil, nil)
	haupt := cat.Foods[0]

	if len(haupt.Groups) != 2 {
		t.Fatalf("got %d groups, want rind plus catch-all", len(haupt.Groups))
	}
	last := haupt.Groups[len(haupt.Groups)-1]
	if last.Key != mixedGroupKey {
		t.Fatalf("last group = %q, want %q", last.Key, mixedGroupKey)
	}
	if len(last.Items) != 1 || last.Items[0].Name != "Tagesgericht" {
		t.Errorf("catch-all items = %+v", last.Items)
	}

	route, ok := cat.RouteFor("tagesgericht")
	if !ok || route.Course != CourseMain {
		t.Errorf("direct item route = %+v, %v, want KITCHEN/MAIN", route, ok)
	}
}

func TestCourseForCategory(t *testing.T) {
	cases := map[string]string{
		"vorspeisen":     CourseStarter,
		"suppen":         CourseStarter,
		"nachspeisen":    CourseDessert,
		"hauptspeisen":   CourseMain,
		"kindergerichte": CourseMain,
	}
	for key, want := range cases {
		if got := CourseForCategory(key); got != want {
			t.Errorf("CourseForCategory(%s) = %s, want %s", key, got, want)
		}
	}
}
