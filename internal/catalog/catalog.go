package catalog

// Category classifies a product within the storefront.
type Category string

const (
	CategoryFrutas   Category = "frutas"
	CategoryLegumes  Category = "legumes"
	CategoryVerduras Category = "verduras"
	CategoryBebidas  Category = "bebidas"
	CategoryOutros   Category = "outros"
)

func (c Category) String() string {
	return string(c)
}

// Product is immutable reference data loaded at process start. Prices are
// per unit of measure (kg, un, bdj, cx, ...).
type Product struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Category  Category `json:"category"`
	Unit      string   `json:"unit"`
	Emoji     string   `json:"emoji"`
	Available bool     `json:"available"`
}

type CategoryInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

var categories = []CategoryInfo{
	{ID: "all", Name: "Todos", Emoji: "🛒"},
	{ID: "frutas", Name: "Frutas", Emoji: "🍎"},
	{ID: "legumes", Name: "Legumes", Emoji: "🥕"},
	{ID: "verduras", Name: "Verduras", Emoji: "🥬"},
	{ID: "bebidas", Name: "Bebidas", Emoji: "🥤"},
	{ID: "outros", Name: "Outros", Emoji: "🛒"},
}

var products = []Product{
	{ID: "1", Name: "Abacate", Price: 14.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🥑", Available: true},
	{ID: "2", Name: "Abacaxi", Price: 5.99, Category: CategoryFrutas, Unit: "un", Emoji: "🍍", Available: true},
	{ID: "3", Name: "Ameixa", Price: 14.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍑", Available: true},
	{ID: "4", Name: "Amora", Price: 5.99, Category: CategoryFrutas, Unit: "bdj", Emoji: "🫐", Available: true},
	{ID: "5", Name: "Banana d'água", Price: 5.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍌", Available: true},
	{ID: "6", Name: "Banana ouro", Price: 8.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍌", Available: true},
	{ID: "7", Name: "Banana prata", Price: 6.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍌", Available: true},
	{ID: "8", Name: "Caju", Price: 4.99, Category: CategoryFrutas, Unit: "bdj", Emoji: "🌰", Available: true},
	{ID: "9", Name: "Cereja", Price: 9.99, Category: CategoryFrutas, Unit: "bdj", Emoji: "❤", Available: true},
	{ID: "10", Name: "Coco seco", Price: 6.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🥥", Available: true},
	{ID: "11", Name: "Coco verde", Price: 4.99, Category: CategoryFrutas, Unit: "un", Emoji: "🥥", Available: true},
	{ID: "12", Name: "Goiaba", Price: 3.99, Category: CategoryFrutas, Unit: "bdj", Emoji: "🍈", Available: true},
	{ID: "13", Name: "Kiwi", Price: 29.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🥝", Available: true},
	{ID: "14", Name: "Laranja lima", Price: 7.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍊", Available: true},
	{ID: "15", Name: "Laranja pera", Price: 2.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍊", Available: true},
	{ID: "16", Name: "Limão", Price: 2.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍋", Available: true},
	{ID: "17", Name: "Maçã argentina", Price: 14.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍎", Available: true},
	{ID: "18", Name: "Maçã fuji", Price: 14.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍎", Available: true},
	{ID: "19", Name: "Maçã gala", Price: 13.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍎", Available: true},
	{ID: "20", Name: "Maçã verde", Price: 15.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍏", Available: true},
	{ID: "21", Name: "Mamão formosa", Price: 5.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍈", Available: true},
	{ID: "22", Name: "Mamão papaia", Price: 2.99, Category: CategoryFrutas, Unit: "un", Emoji: "⭐", Available: true},
	{ID: "23", Name: "Manga carlotinha", Price: 4.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🥭", Available: true},
	{ID: "24", Name: "Manga espada", Price: 4.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🥭", Available: true},
	{ID: "25", Name: "Maracujá", Price: 11.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍋", Available: true},
	{ID: "26", Name: "Melancia", Price: 3.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍉", Available: true},
	{ID: "27", Name: "Melancia baby", Price: 5.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍉", Available: true},
	{ID: "28", Name: "Melão", Price: 5.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍈", Available: true},
	{ID: "29", Name: "Morango", Price: 3.99, Category: CategoryFrutas, Unit: "bdj", Emoji: "🍓", Available: true},
	{ID: "30", Name: "Pera d'água", Price: 19.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍐", Available: true},
	{ID: "31", Name: "Pêssego", Price: 8.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🍑", Available: true},
	{ID: "32", Name: "Pinha", Price: 3.99, Category: CategoryFrutas, Unit: "un", Emoji: "🫶🏽", Available: true},
	{ID: "33", Name: "Tangerina importada", Price: 15.99, Category: CategoryFrutas, Unit: "kg", Emoji: "🧡", Available: true},
	{ID: "34", Name: "Uva roxa", Price: 6.99, Category: CategoryFrutas, Unit: "cx", Emoji: "🍇", Available: true},
	{ID: "35", Name: "Uva verde", Price: 6.99, Category: CategoryFrutas, Unit: "cx", Emoji: "🍇", Available: true},
	{ID: "36", Name: "Abóbora", Price: 3.99, Category: CategoryLegumes, Unit: "kg", Emoji: "🎃", Available: true},
	{ID: "37", Name: "Abobrinha", Price: 0.99, Category: CategoryLegumes, Unit: "kg", Emoji: "🥒", Available: true},
	{ID: "38", Name: "Batata doce", Price: 1.99, Category: CategoryLegumes, Unit: "kg", Emoji: "🍠", Available: true},
	{ID: "39", Name: "Cenoura", Price: 2.99, Category: CategoryLegumes, Unit: "kg", Emoji: "🥕", Available: true},
	{ID: "40", Name: "Tomate cereja", Price: 1.99, Category: CategoryLegumes, Unit: "cx", Emoji: "🍅", Available: true},
	{ID: "41", Name: "Alface crespa", Price: 1.99, Category: CategoryVerduras, Unit: "un", Emoji: "🥬", Available: true},
	{ID: "42", Name: "Rúcula", Price: 1.99, Category: CategoryVerduras, Unit: "un", Emoji: "🌿", Available: true},
	{ID: "43", Name: "Água c/ gás", Price: 2.99, Category: CategoryBebidas, Unit: "500ml", Emoji: "💧", Available: true},
	{ID: "44", Name: "Coca-cola 2L", Price: 11.99, Category: CategoryBebidas, Unit: "un", Emoji: "🥤", Available: true},
	{ID: "45", Name: "Água de coco", Price: 4.99, Category: CategoryBebidas, Unit: "500ml", Emoji: "🥥", Available: true},
	{ID: "46", Name: "Ovos brancos", Price: 8.99, Category: CategoryOutros, Unit: "dúzia", Emoji: "🥚", Available: true},
	{ID: "47", Name: "Mel", Price: 4.99, Category: CategoryOutros, Unit: "250ml", Emoji: "🍯", Available: true},
}

// All returns a copy of the full product list.
func All() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// ByID looks a product up by its identifier.
func ByID(id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ByCategory returns the available products of a category. The pseudo
// category "all" (and the empty string) returns every available product.
func ByCategory(category string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !p.Available {
			continue
		}
		if category == "" || category == "all" || string(p.Category) == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the display category list, including the "all" filter.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}
