package category

// Catalog is the versioned seed data for game categories. It is loaded by
// Provision at startup and by the seeder command; it is never consulted at
// request time.
func Catalog() []Seed {
	return []Seed{
		{
			Name:        "Animals",
			Code:        "ANIMALS",
			Description: "Animal-themed memory cards",
		},
		{
			Name:        "Astronomy",
			Code:        "ASTRONOMY",
			Description: "Space-themed memory cards",
		},
		{
			Name:        "Patterns",
			Code:        "PATTERN",
			Description: "Pattern-themed memory cards",
		},
		{
			Name:        "Food",
			Code:        "FOOD",
			Description: "Food-themed memory cards",
		},
	}
}
