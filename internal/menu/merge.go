package menu

import "strings"

// Merge folds incoming into existing and returns a new menu.
//
// Categories and items are matched by case-insensitive name. Unmatched ones
// are appended in incoming order. A matched item takes the incoming price,
// notes and image only where those are non-empty; its name never changes.
// Neither argument is modified.
func Merge(existing, incoming []Category) []Category {
	result := Clone(existing)
	if result == nil {
		result = []Category{}
	}

	for _, nc := range incoming {
		ci := indexOfCategory(result, nc.Category)
		if ci < 0 {
			result = append(result, Clone([]Category{nc})[0])
			continue
		}

		cat := &result[ci]
		for _, ni := range nc.Items {
			ii := indexOfItem(cat.Items, ni.Name)
			if ii < 0 {
				cat.Items = append(cat.Items, ni)
				continue
			}

			item := &cat.Items[ii]
			if ni.Price != "" {
				item.Price = ni.Price
			}
			if ni.Notes != "" {
				item.Notes = ni.Notes
			}
			if ni.Image != "" {
				item.Image = ni.Image
			}
		}
	}

	return result
}

// sameName treats empty names as null: they never match anything.
func sameName(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

func indexOfCategory(cats []Category, name string) int {
	for i := range cats {
		if sameName(cats[i].Category, name) {
			return i
		}
	}
	return -1
}

func indexOfItem(items []Item, name string) int {
	for i := range items {
		if sameName(items[i].Name, name) {
			return i
		}
	}
	return -1
}
