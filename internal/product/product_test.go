package product

import "testing"

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		p     Product
		field string
	}{
		{"missing id", Product{Price: 10}, "id"},
		{"negative price", Product{ID: "1", Price: -1}, "price"},
		{"rating above scale", Product{ID: "1", Rating: 5.5}, "rating"},
		{"negative stock", Product{ID: "1", Stock: -3}, "stock"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Validate(tc.p)
			if _, ok := errs[tc.field]; !ok {
				t.Fatalf("expected error for %q, got %v", tc.field, errs)
			}
		})
	}

	if errs := Validate(Product{ID: "1", Name: "Aether Carbon", Price: 0, Rating: 5}); len(errs) != 0 {
		t.Fatalf("expected valid product, got %v", errs)
	}
}

func TestInMemoryRepository_ListReturnsCopy(t *testing.T) {
	repo := NewInMemoryRepository([]Product{{ID: "1", Name: "Aether Carbon"}})

	first, _ := repo.List()
	first[0].Name = "changed"

	second, _ := repo.List()
	if second[0].Name != "Aether Carbon" {
		t.Fatalf("repository storage was mutated through List result")
	}
}
