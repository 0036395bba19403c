package models

// Category is one of the fixed marketplace categories
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Categories is the fixed catalog served by GET /products/categories
var Categories = []Category{
	{ID: "meyve", Name: "Meyve", Icon: "nutrition"},
	{ID: "sebze", Name: "Sebze", Icon: "leaf"},
	{ID: "nakliye", Name: "Nakliye", Icon: "car"},
	{ID: "kasa", Name: "Kasa", Icon: "cube"},
	{ID: "zirai_ilac", Name: "Zirai İlaç", Icon: "medical"},
	{ID: "ambalaj", Name: "Ambalaj", Icon: "archive"},
	{ID: "indir_bindir", Name: "İndir-Bindir", Icon: "people"},
	{ID: "emlak", Name: "Emlak", Icon: "home"},
	{ID: "arac", Name: "Araç", Icon: "car-sport"},
	{ID: "gida", Name: "Gıda", Icon: "restaurant"},
	{ID: "baharat", Name: "Baharat", Icon: "flame"},
	{ID: "diger", Name: "Diğer", Icon: "apps"},
}

// ValidCategory reports whether id is one of the known categories.
func ValidCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
