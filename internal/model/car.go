package model

// CarInput is the body of POST /api/car and PUT /api/car/{id}. Empty Fuel
// and Transmission fall back to "electric" and "auto".
type CarInput struct {
	Size         string `json:"size" binding:"required"`
	Fuel         string `json:"fuel"`
	Doors        int    `json:"doors" binding:"required,min=1"`
	Transmission string `json:"transmission"`
}

type Car struct {
	ID           int64  `json:"id"`
	Size         string `json:"size"`
	Fuel         string `json:"fuel"`
	Doors        int    `json:"doors"`
	Transmission string `json:"transmission"`
}

// CarFilter narrows GET /api/cars. Zero values match everything.
type CarFilter struct {
	Size     string
	MinDoors int
}

type TripInput struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Description string `json:"description" binding:"required"`
}

type Trip struct {
	ID          int64  `json:"id"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Description string `json:"description"`
	CarID       int64  `json:"car_id"`
}
