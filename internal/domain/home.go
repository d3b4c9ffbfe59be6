package domain

import (
	"fmt"
	"strings"
	"time"
)

// PropertyType is the kind of property a listing advertises
type PropertyType string

const (
	PropertyResidential PropertyType = "RESIDENTIAL"
	PropertyCondo       PropertyType = "CONDO"
)

// ParsePropertyType parses a property type from a query or request parameter.
func ParsePropertyType(s string) (PropertyType, error) {
	switch PropertyType(strings.ToUpper(s)) {
	case PropertyResidential:
		return PropertyResidential, nil
	case PropertyCondo:
		return PropertyCondo, nil
	}
	return "", fmt.Errorf("unknown property type %q", s)
}

// Home represents a property listing owned by exactly one realtor
type Home struct {
	ID           string
	Address      string
	City         string
	Price        float64
	LandSize     float64
	Bedrooms     int
	Bathrooms    int
	PropertyType PropertyType
	RealtorID    string
	Images       []Image
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Image is a photo attached to a listing
type Image struct {
	ID     string
	URL    string
	HomeID string
}

// Message is a buyer inquiry on a listing. The thread "owner" for
// authorization purposes is the listing's realtor, not the buyer.
type Message struct {
	ID        string
	Body      string
	HomeID    string
	RealtorID string
	BuyerID   string
	CreatedAt time.Time
}
