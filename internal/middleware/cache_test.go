package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCacheControl(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		expectedHeader string
	}{
		{
			name:           "favicon",
			method:         "GET",
			path:           "/favicon.svg",
			expectedHeader: "public, max-age=604800",
		},
		{
			name:           "stylesheet",
			method:         "GET",
			path:           "/static/checkout.css",
			expectedHeader: "public, max-age=86400",
		},
		{
			name:           "swagger docs",
			method:         "GET",
			path:           "/swagger/doc.json",
			expectedHeader: "public, max-age=3600",
		},
		{
			name:           "swagger ui HEAD",
			method:         "HEAD",
			path:           "/swagger/index.html",
			expectedHeader: "public, max-age=3600",
		},
		{
			name:           "package list",
			method:         "GET",
			path:           "/api/v1/packages",
			expectedHeader: "public, max-age=300, must-revalidate",
		},
		{
			name:           "english pricing page",
			method:         "GET",
			path:           "/",
			expectedHeader: "private, no-cache",
		},
		{
			name:           "turkish pricing page",
			method:         "GET",
			path:           "/tr",
			expectedHeader: "private, no-cache",
		},
		{
			name:           "checkout form post",
			method:         "POST",
			path:           "/checkout",
			expectedHeader: "no-store",
		},
		{
			name:           "api checkout",
			method:         "POST",
			path:           "/api/v1/checkout",
			expectedHeader: "no-store",
		},
		{
			name:           "DELETE",
			method:         "DELETE",
			path:           "/static/checkout.css",
			expectedHeader: "no-store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			handler := CacheControl(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if !called {
				t.Fatal("next handler was not called")
			}
			if got := w.Header().Get("Cache-Control"); got != tt.expectedHeader {
				t.Errorf("Cache-Control = %q, want %q", got, tt.expectedHeader)
			}
		})
	}
}

func TestCacheControlKeepsStatus(t *testing.T) {
	handler := CacheControl(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}
