package itinerary

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is wrapped by every ValidationError.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError names the first field of a NewItem that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", strings.ToLower(e.Field), e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewItem is the caller-supplied content of a record to be created.
// The store assumes Validate has already passed.
type NewItem struct {
	Type              ItemType  `validate:"itemtype"`
	Timestamp         time.Time `validate:"storabletime"`
	Title             string    `validate:"notblank"`
	LocationName      string
	Price             float64 `validate:"gte=0"`
	LocationURL       string  `validate:"omitempty,webprefix"`
	Memo              string
	Photo             []byte
	TransportDuration string
	IconName          string
}

var validate = newValidator()

// Timestamps are persisted as nanoseconds since the Unix epoch, which
// bounds the representable range.
var (
	MinTimestamp = time.Unix(0, math.MinInt64).UTC()
	MaxTimestamp = time.Unix(0, math.MaxInt64).UTC()
)

// StorableTime reports whether t is zero (undated) or inside
// [MinTimestamp, MaxTimestamp].
func StorableTime(t time.Time) bool {
	return t.IsZero() || (!t.Before(MinTimestamp) && !t.After(MaxTimestamp))
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("itemtype", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(ItemType)
		return ok && t.Valid()
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("storabletime", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && StorableTime(t)
	})
	_ = v.RegisterValidation("webprefix", func(fl validator.FieldLevel) bool {
		return HasWebScheme(fl.Field().String())
	})
	return v
}

// Validate checks the boundary rules for a new record.
func (n NewItem) Validate() error {
	err := validate.Struct(n)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Reason: reasonFor(fe)}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "must not be empty"
	case "gte":
		return "must not be negative"
	case "webprefix":
		return "must start with http:// or https://"
	case "storabletime":
		return fmt.Sprintf("must fall between %s and %s",
			MinTimestamp.Format(time.DateOnly), MaxTimestamp.Format(time.DateOnly))
	case "itemtype":
		names := make([]string, len(AllTypes))
		for i, t := range AllTypes {
			names[i] = t.String()
		}
		return "must be one of " + strings.Join(names, ", ")
	}
	return "failed " + fe.Tag()
}

// HasWebScheme reports whether s starts with http:// or https://, ignoring case.
func HasWebScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ParsePrice converts user text into a price. Empty text means no price.
func ParsePrice(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	p, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, &ValidationError{Field: "Price", Reason: "must be a number"}
	}
	return p, nil
}
