package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMapURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.google.com/maps/place/Tokyo+Tower", true},
		{"https://google.co.jp/maps?q=kyoto", true},
		{"https://goo.gl/maps/xyz", true},
		{"https://maps.app.goo.gl/AbCdEf", true},
		{"https://maps.apple.com/?q=osaka", true},
		{"https://www.google.com/search?q=maps", false},
		{"https://example.com/maps", false},
		{"maps.google.com/foo", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMapURL(tt.url))
		})
	}
}
