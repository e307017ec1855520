package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCatalogLocations(t *testing.T) {
	h := &CatalogHandler{Places: []string{"Library", "Student Union", "Science Building"}}

	tests := []struct {
		query    string
		expected []string
	}{
		{"", []string{"Library", "Student Union", "Science Building"}},
		{"?q=sci", []string{"Science Building"}},
		{"?q=zzz", []string{}},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.Locations(rec, httptest.NewRequest("GET", "/api/locations"+tt.query, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", tt.query, rec.Code)
		}

		var got []string
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("%q: decoding: %v", tt.query, err)
		}
		if len(got) != len(tt.expected) {
			t.Fatalf("%q: got %v, want %v", tt.query, got, tt.expected)
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("%q: got %v, want %v", tt.query, got, tt.expected)
			}
		}
	}
}
