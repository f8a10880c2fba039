package itinerary

import (
	"fmt"
	"time"
)

// ItemType is the category of an itinerary entry.
// The set is closed; ParseItemType rejects anything outside it.
type ItemType uint8

const (
	TypeTransport ItemType = iota + 1
	TypeHotel
	TypeRestaurant
	TypeActivity
	TypeOther
)

// AllTypes lists every ItemType in display order.
var AllTypes = []ItemType{TypeTransport, TypeHotel, TypeRestaurant, TypeActivity, TypeOther}

// String returns the persisted name of the type.
func (t ItemType) String() string {
	switch t {
	case TypeTransport:
		return "transport"
	case TypeHotel:
		return "hotel"
	case TypeRestaurant:
		return "restaurant"
	case TypeActivity:
		return "activity"
	case TypeOther:
		return "other"
	}
	return fmt.Sprintf("ItemType(%d)", uint8(t))
}

// Valid reports whether t is one of the declared types.
func (t ItemType) Valid() bool {
	return t >= TypeTransport && t <= TypeOther
}

// ParseItemType converts a persisted name back into an ItemType.
func ParseItemType(s string) (ItemType, error) {
	for _, t := range AllTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown item type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ItemType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("marshal item type: invalid value %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ItemType) UnmarshalText(b []byte) error {
	parsed, err := ParseItemType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DefaultIcon returns the built-in icon for a category.
func DefaultIcon(t ItemType) string {
	switch t {
	case TypeTransport:
		return "tram.fill"
	case TypeHotel:
		return "bed.double.fill"
	case TypeRestaurant:
		return "fork.knife"
	case TypeActivity:
		return "figure.walk"
	case TypeOther:
		return "mappin"
	}
	return ""
}

// PhotoKind tags which representation a record's photo uses.
type PhotoKind uint8

const (
	PhotoAbsent PhotoKind = iota
	PhotoInline
	PhotoFile
)

func (k PhotoKind) String() string {
	switch k {
	case PhotoAbsent:
		return "absent"
	case PhotoInline:
		return "inline"
	case PhotoFile:
		return "file"
	}
	return fmt.Sprintf("PhotoKind(%d)", uint8(k))
}

// Photo is the read-side view of a record's image.
// The zero value is an absent photo.
type Photo struct {
	kind   PhotoKind
	inline []byte
}

// NoPhoto returns the absent variant.
func NoPhoto() Photo { return Photo{} }

// InlinePhoto wraps legacy bytes held by the record itself.
// Empty input yields the absent variant.
func InlinePhoto(b []byte) Photo {
	if len(b) == 0 {
		return Photo{}
	}
	return Photo{kind: PhotoInline, inline: b}
}

// FilePhoto marks the photo as stored in the image store under the item ID.
func FilePhoto() Photo { return Photo{kind: PhotoFile} }

// Kind returns the representation tag.
func (p Photo) Kind() PhotoKind { return p.kind }

// Inline returns the legacy bytes when Kind is PhotoInline.
func (p Photo) Inline() ([]byte, bool) {
	if p.kind != PhotoInline {
		return nil, false
	}
	return p.inline, true
}

// Item is a durable itinerary record.
type Item struct {
	ID                string
	Type              ItemType
	Timestamp         time.Time
	Title             string
	LocationName      string
	Price             float64
	LocationURL       string
	Memo              string
	TransportDuration string
	IconName          string
	Photo             Photo
}

// Dated reports whether the record carries a timestamp.
func (it Item) Dated() bool {
	return !it.Timestamp.IsZero()
}

// Before orders records by timestamp ascending with undated records last.
// Ties fall back to ID so the order is total.
func Before(a, b Item) bool {
	switch {
	case a.Dated() && !b.Dated():
		return true
	case !a.Dated() && b.Dated():
		return false
	case a.Dated() && b.Dated() && !a.Timestamp.Equal(b.Timestamp):
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.ID < b.ID
}

// Compare is Before in the three-way form expected by slices.SortFunc.
func Compare(a, b Item) int {
	switch {
	case Before(a, b):
		return -1
	case Before(b, a):
		return 1
	}
	return 0
}
