package domain

// FuelOption and TechnologyOption mirror the registry option endpoints.
// Technology options are scoped to one fuel family; a technology chosen under
// a different fuel type is invalid.

type FuelOption struct {
	Code  FuelType `json:"code"`
	Label string   `json:"label"`
}

type TechnologyOption struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	FuelType FuelType `json:"fuel_type"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
