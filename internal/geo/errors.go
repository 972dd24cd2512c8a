package geo

import "errors"

var (
	// ErrNotFound means the backend has no record for the address
	ErrNotFound = errors.New("no geolocation record for address")
	// ErrBadHTTPStatus means the provider answered with a non-2xx status other than 404
	ErrBadHTTPStatus = errors.New("bad HTTP status received")
	// ErrMalformedResponse means the provider body is not the expected JSON object
	ErrMalformedResponse = errors.New("malformed geolocation response")
	// ErrNoCountry means the response decoded but carries no country
	ErrNoCountry = errors.New("geolocation response has no country")
)
