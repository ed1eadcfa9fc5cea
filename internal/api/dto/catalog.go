package dto

type StopResponse struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

type ListCatalogResponse struct {
	Stops []StopResponse `json:"stops"`
}
