package itinerary

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() NewItem {
	return NewItem{
		Type:      TypeRestaurant,
		Timestamp: time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC),
		Title:     "Ichiran Shibuya",
		Price:     1180,
	}
}

func TestValidate_Accepts(t *testing.T) {
	in := validInput()
	require.NoError(t, in.Validate())

	in.LocationURL = "HTTPS://maps.app.goo.gl/abc"
	require.NoError(t, in.Validate())

	in.Price = 0
	require.NoError(t, in.Validate())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewItem)
		field  string
	}{
		{"empty title", func(n *NewItem) { n.Title = "" }, "Title"},
		{"blank title", func(n *NewItem) { n.Title = "   " }, "Title"},
		{"negative price", func(n *NewItem) { n.Price = -1 }, "Price"},
		{"ftp url", func(n *NewItem) { n.LocationURL = "ftp://example.com" }, "LocationURL"},
		{"bare host url", func(n *NewItem) { n.LocationURL = "example.com" }, "LocationURL"},
		{"zero type", func(n *NewItem) { n.Type = 0 }, "Type"},
		{"out of range type", func(n *NewItem) { n.Type = 42 }, "Type"},
		{"year 2300", func(n *NewItem) { n.Timestamp = time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC) }, "Timestamp"},
		{"year 1600", func(n *NewItem) { n.Timestamp = time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC) }, "Timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := in.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidate_TimestampBounds(t *testing.T) {
	in := validInput()

	in.Timestamp = time.Time{}
	require.NoError(t, in.Validate(), "undated is allowed")

	in.Timestamp = MaxTimestamp
	require.NoError(t, in.Validate())

	in.Timestamp = MinTimestamp
	require.NoError(t, in.Validate())

	in.Timestamp = MaxTimestamp.Add(time.Second)
	err := in.Validate()
	require.Error(t, err)
	assert.Equal(t, "timestamp: must fall between 1677-09-21 and 2262-04-11", err.Error())
}

func TestValidate_TypeReasonListsChoices(t *testing.T) {
	in := validInput()
	in.Type = 0
	err := in.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport, hotel, restaurant, activity, other")
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("")
	require.NoError(t, err)
	assert.Zero(t, p)

	p, err = ParsePrice(" 2500 ")
	require.NoError(t, err)
	assert.Equal(t, 2500.0, p)

	p, err = ParsePrice("12.5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, p)

	for _, bad := range []string{"abc", "12yen", "NaN", "Inf"} {
		_, err := ParsePrice(bad)
		require.Error(t, err, bad)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.Contains(t, err.Error(), "must be a number")
	}
}

func TestHasWebScheme(t *testing.T) {
	assert.True(t, HasWebScheme("http://a"))
	assert.True(t, HasWebScheme("Https://a"))
	assert.False(t, HasWebScheme("mailto:a@b"))
	assert.False(t, HasWebScheme(""))
}
