package enums

import "fmt"

// FulfillmentType distinguishes one-time purchases from subscription carts.
type FulfillmentType string

const (
	FulfillmentOneTime      FulfillmentType = "one_time"
	FulfillmentSubscription FulfillmentType = "subscription"
)

var validFulfillmentTypes = []FulfillmentType{
	FulfillmentOneTime,
	FulfillmentSubscription,
}

// String implements fmt.Stringer.
func (f FulfillmentType) String() string {
	return string(f)
}

// IsValid reports whether the fulfillment type is recognized.
func (f FulfillmentType) IsValid() bool {
	for _, candidate := range validFulfillmentTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFulfillmentType converts a raw string into a FulfillmentType.
func ParseFulfillmentType(value string) (FulfillmentType, error) {
	for _, candidate := range validFulfillmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment type %q", value)
}
