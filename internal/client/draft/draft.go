// Package draft keeps the state of a listing form between edits and
// turns it into a create request on submit.
package draft

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/vpetrenko/realhome/internal/client/api"
)

var (
	ErrNoImages         = errors.New("You must upload at least 1 image")
	ErrDiscountNotLower = errors.New("Discount price must be lower than regular price")
	ErrNotANumber       = errors.New("Bedrooms, bathrooms and prices must be numbers")
)

// ListingCreator submits a finished draft. *api.Client satisfies it.
type ListingCreator interface {
	CreateListing(ctx context.Context, payload api.ListingPayload) (*api.Listing, error)
}

// Draft holds form fields as the user typed them. Numeric fields stay
// textual until submit so partial input never breaks editing.
type Draft struct {
	Name           string
	Description    string
	Address        string
	Type           string
	Bedrooms       string
	Bathrooms      string
	RegularPrice   string
	DiscountPrice  string
	Offer          bool
	Parking        bool
	Furnished      bool
	ImageURLs      []string

	submitting atomic.Bool
}

// NewDraft returns a draft with the defaults a fresh form shows.
func NewDraft() *Draft {
	return &Draft{
		Type:          "rent",
		Bedrooms:      "1",
		Bathrooms:     "1",
		RegularPrice:  "50",
		DiscountPrice: "0",
	}
}

func (d *Draft) Submitting() bool {
	return d.submitting.Load()
}

// SetField applies a single form change. The sale and rent fields are
// mutually exclusive and both set Type; parking, furnished and offer are
// boolean flags; everything else is a plain assignment by field id.
func (d *Draft) SetField(id, value string) {
	switch id {
	case "sale", "rent":
		d.Type = id
	case "parking":
		d.Parking = value == "true"
	case "furnished":
		d.Furnished = value == "true"
	case "offer":
		d.Offer = value == "true"
	case "name":
		d.Name = value
	case "description":
		d.Description = value
	case "address":
		d.Address = value
	case "bedrooms":
		d.Bedrooms = value
	case "bathrooms":
		d.Bathrooms = value
	case "regularPrice":
		d.RegularPrice = value
	case "discountPrice":
		d.DiscountPrice = value
	}
}

// Submit validates the draft and sends it. Validation failures, including
// unparseable numeric fields, are reported before any network call is made.
func (d *Draft) Submit(ctx context.Context, creator ListingCreator) (string, error) {
	if len(d.ImageURLs) < 1 {
		return "", ErrNoImages
	}

	bedrooms, err := parseNumber(d.Bedrooms)
	if err != nil {
		return "", ErrNotANumber
	}
	bathrooms, err := parseNumber(d.Bathrooms)
	if err != nil {
		return "", ErrNotANumber
	}
	regular, err := parseNumber(d.RegularPrice)
	if err != nil {
		return "", ErrNotANumber
	}
	discount, err := parseNumber(d.DiscountPrice)
	if err != nil {
		return "", ErrNotANumber
	}

	if regular < discount {
		return "", ErrDiscountNotLower
	}

	d.submitting.Store(true)
	defer d.submitting.Store(false)

	payload := api.ListingPayload{
		Name:          d.Name,
		Description:   d.Description,
		Address:       d.Address,
		Type:          d.Type,
		Bedrooms:      int(bedrooms),
		Bathrooms:     int(bathrooms),
		RegularPrice:  regular,
		DiscountPrice: discount,
		Offer:         d.Offer,
		Parking:       d.Parking,
		Furnished:     d.Furnished,
		ImageURLs:     d.ImageURLs,
	}

	listing, err := creator.CreateListing(ctx, payload)
	if err != nil {
		return "", err
	}
	return listing.ID, nil
}

func parseNumber(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
