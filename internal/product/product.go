package product

// Product is a catalog entry. Only ID, Name, Description and Price take part
// in search and cart arithmetic; the remaining fields are display data.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Price       int64    `json:"price" yaml:"price"`
	Image       string   `json:"image,omitempty" yaml:"image"`
	Rating      float64  `json:"rating" yaml:"rating"`
	Stock       int      `json:"stock" yaml:"stock"`
	Weight      string   `json:"weight,omitempty" yaml:"weight"`
	Colors      []string `json:"colors,omitempty" yaml:"colors"`
	Features    []string `json:"features,omitempty" yaml:"features"`
}

// MaxRating is the top of the star scale shown on product cards.
const MaxRating = 5

// Validate returns field errors keyed by JSON field name. An empty map means
// the product is acceptable.
func Validate(p Product) map[string]string {
	errs := map[string]string{}
	if p.ID == "" {
		errs["id"] = "id is required"
	}
	if p.Price < 0 {
		errs["price"] = "price must be >= 0"
	}
	if p.Rating < 0 || p.Rating > MaxRating {
		errs["rating"] = "rating must be between 0 and 5"
	}
	if p.Stock < 0 {
		errs["stock"] = "stock must be >= 0"
	}
	return errs
}
