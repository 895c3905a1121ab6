package routes

import "fmt"

// APIVersion is the version segment of every API route.
const APIVersion = "v0"

// Version returns the current API version string used in routing (e.g., "v0").
func Version() string {
	return APIVersion
}

// Base returns the versioned API base path (e.g., "/api/v0").
func Base() string {
	return fmt.Sprintf("/api/%s", Version())
}

// Convert returns the conversion endpoint (e.g., "/api/v0/convert").
func Convert() string {
	return Base() + "/convert"
}

// Extract returns the raw extraction endpoint (e.g., "/api/v0/extract").
func Extract() string {
	return Base() + "/extract"
}

// Formats returns the format listing endpoint (e.g., "/api/v0/formats").
func Formats() string {
	return Base() + "/formats"
}

// HealthVersioned returns the versioned health endpoint (e.g., "/api/v0/health").
func HealthVersioned() string {
	return Base() + "/health"
}
