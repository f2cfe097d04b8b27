package catalog

import "sort"

// Document is the whole catalog persisted as a single unit: beer items
// with their price labels, plus the promotions and new-arrival boards.
type Document struct {
	Items       map[string]string `json:"items"`
	Promotions  []string          `json:"promotions"`
	NewArrivals []string          `json:"new_arrivals"`
}

// DefaultSeed returns the catalog used when storage holds no document yet.
func DefaultSeed() Document {
	return Document{
		Items: map[string]string{
			"IPA":      "60 грн/л",
			"Лагер":    "50 грн/л",
			"Пшеничне": "55 грн/л",
		},
		Promotions:  []string{},
		NewArrivals: []string{},
	}
}

// Clone returns a deep copy so callers can read without holding store locks.
func (d Document) Clone() Document {
	out := Document{
		Items:       make(map[string]string, len(d.Items)),
		Promotions:  append([]string(nil), d.Promotions...),
		NewArrivals: append([]string(nil), d.NewArrivals...),
	}
	for name, price := range d.Items {
		out.Items[name] = price
	}
	if out.Promotions == nil {
		out.Promotions = []string{}
	}
	if out.NewArrivals == nil {
		out.NewArrivals = []string{}
	}
	return out
}

// ItemNames returns item names in stable sorted order for keyboard layouts.
func (d Document) ItemNames() []string {
	names := make([]string, 0, len(d.Items))
	for name := range d.Items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Document) normalize() {
	if d.Items == nil {
		d.Items = map[string]string{}
	}
	if d.Promotions == nil {
		d.Promotions = []string{}
	}
	if d.NewArrivals == nil {
		d.NewArrivals = []string{}
	}
}
