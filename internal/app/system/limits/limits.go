// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize caps JSON request bodies across the API. Garden
	// descriptions and invite lists fit comfortably under this.
	MaxJSONBodySize = 1 << 20 // 1 MB
)
