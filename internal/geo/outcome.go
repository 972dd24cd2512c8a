package geo

// Outcome is the result of a geolocation lookup
// It is either Found with a country or NotFound. Failures never surface as
// errors: whatever went wrong, the caller just sees NotFound.
type Outcome struct {
	Country string
	Found   bool
}

// Found returns a successful outcome for country
func Found(country string) Outcome {
	return Outcome{Country: country, Found: true}
}

// NotFound returns the outcome used for every unsuccessful lookup
func NotFound() Outcome {
	return Outcome{}
}
