package dto

type ProductAvailability struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	// Same order as AvailabilityResponse.Restaurants.
	Available []bool `json:"available"`
}

type AvailabilityResponse struct {
	Restaurants []RestaurantResponse  `json:"restaurants"`
	Products    []ProductAvailability `json:"products"`
}
