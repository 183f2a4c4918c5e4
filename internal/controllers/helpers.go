package controllers

import (
	"crypto/subtle"
	"net/http"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// authorized compares the key query parameter in constant time. An empty
// configured key disables the endpoint.
func authorized(r *http.Request, accessKey string) bool {
	if accessKey == "" {
		return false
	}
	key := r.URL.Query().Get("key")
	return subtle.ConstantTimeCompare([]byte(key), []byte(accessKey)) == 1
}
