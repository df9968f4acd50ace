package httpapi

// addLocationRequest adds a tracked location. Latitude and longitude come
// together or not at all; without them the name is forward geocoded.
type addLocationRequest struct {
	Name      string   `json:"name" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

type pageRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

type authorizationRequest struct {
	State string `json:"state" validate:"required,oneof=undetermined restricted denied authorized"`
}

type positionRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type errorRequest struct {
	Message string `json:"message" validate:"required"`
}

// searchRequest issues a completion query; an empty q clears the candidates.
type searchRequest struct {
	Q string `json:"q" validate:"max=200"`
}

type selectRequest struct {
	Handle string `json:"handle" validate:"required"`
}

type actionRequest struct {
	Type    string            `json:"type" validate:"required"`
	Payload map[string]string `json:"payload"`
}
