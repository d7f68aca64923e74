package domain

// Restaurant is a place that can fulfil orders from its menu.
type Restaurant struct {
	RestaurantID int
	Name         string
	Address      string
	ContactPhone string
}

// Product is a sellable menu position shared across restaurants.
type Product struct {
	ProductID int
	Name      string
}

// MenuAvailabilityEntry records whether a restaurant currently sells a product.
// Entries are owned by menu administration; matching only reads a snapshot.
type MenuAvailabilityEntry struct {
	RestaurantID int
	ProductID    int
	IsAvailable  bool
}
