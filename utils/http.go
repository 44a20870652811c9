// utils/http.go (shared client for the inference service)
package utils

import (
	"net/http"
	"time"
)

var HTTPClient = &http.Client{
	Timeout: 60 * time.Second, // inference on large photos can be slow
}
