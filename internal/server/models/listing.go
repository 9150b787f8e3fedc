package models

import "time"

// Transaction types accepted for a listing.
const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

// Limits applied to the image gallery of a single listing.
const (
	MinListingImages = 1
	MaxListingImages = 6
)

// Listing is a persisted property listing.
type Listing struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Address       string    `json:"address"`
	Type          string    `json:"type"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	RegularPrice  int64     `json:"regularPrice"`
	DiscountPrice int64     `json:"discountPrice"`
	Offer         bool      `json:"offer"`
	Parking       bool      `json:"parking"`
	Furnished     bool      `json:"furnished"`
	ImageURLs     []string  `json:"imageUrls"`
	UserRef       string    `json:"userRef"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
