package models

// WhereAmIResult is the response body of GET /whereami
// Every field is a pointer so that an unknown value is encoded as JSON null
// instead of being dropped or sent as an empty string
type WhereAmIResult struct {
	IP       *string `json:"ip" example:"11.111.111.1"`   // Caller address as seen by the server
	Country  *string `json:"country" example:"Australia"` // Country reported by the geolocation backend
	Language *string `json:"language" example:"en-AU"`    // Most preferred Accept-Language tag
}

// NewWhereAmIResult builds a result from plain strings
// An empty string means "unknown" and becomes a JSON null
func NewWhereAmIResult(ip, country, language string) *WhereAmIResult {
	return &WhereAmIResult{
		IP:       optional(ip),
		Country:  optional(country),
		Language: optional(language),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GeoRecord is one row of a local geolocation dataset
// JSON tags are used for the Redis value encoding
type GeoRecord struct {
	IP      string `json:"-"`       // The IP address (stored in the key, not in the value)
	City    string `json:"city"`    // City name
	Country string `json:"country"` // Country name
}
