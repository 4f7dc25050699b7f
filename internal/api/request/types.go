package request

// RegisterPlayer is the request body for player registration
type RegisterPlayer struct {
	Name         string `json:"name"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

// Login is the request body for session creation
type Login struct {
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

// ConfirmCapture carries the code typed in by the captured player
type ConfirmCapture struct {
	ConfirmationCode string `json:"confirmation_code"`
}

// RegisterDevice is the request body for push token registration
type RegisterDevice struct {
	Token string `json:"token"`
}

// CreateArena is the request body for arena creation
type CreateArena struct {
	LocationName   string  `json:"location_name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	StreetAddress1 string  `json:"street_address_1"`
	StreetAddress2 string  `json:"street_address_2,omitempty"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	ZipCode        string  `json:"zip_code"`
}
