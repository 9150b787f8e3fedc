package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vpetrenko/realhome/internal/client/draft"
	"github.com/vpetrenko/realhome/internal/client/uploader"
)

// NewListing walks the user through a listing form: text fields, flags,
// image selection and upload, then submission.
func (a *App) NewListing(ctx context.Context) error {
	d := draft.NewDraft()

	for _, field := range []struct {
		id     string
		prompt string
	}{
		{"name", "Name"},
		{"description", "Description"},
		{"address", "Address"},
		{"bedrooms", "Bedrooms"},
		{"bathrooms", "Bathrooms"},
		{"regularPrice", "Regular price"},
	} {
		value, err := getSimpleText(a.reader, field.prompt, os.Stdout)
		if err != nil {
			return err
		}
		if value != "" {
			d.SetField(field.id, value)
		}
	}

	sale, err := GetBool(a.reader, "For sale? (no means rent)", os.Stdout)
	if err != nil {
		return err
	}
	if sale {
		d.SetField("sale", "true")
	} else {
		d.SetField("rent", "true")
	}

	for _, flag := range []struct {
		id     string
		prompt string
	}{
		{"parking", "Parking spot?"},
		{"furnished", "Furnished?"},
		{"offer", "Offer?"},
	} {
		on, err := GetBool(a.reader, flag.prompt, os.Stdout)
		if err != nil {
			return err
		}
		d.SetField(flag.id, fmt.Sprintf("%t", on))
	}

	if d.Offer {
		value, err := getSimpleText(a.reader, "Discount price", os.Stdout)
		if err != nil {
			return err
		}
		if value != "" {
			d.SetField("discountPrice", value)
		}
	}

	if err := a.uploadImages(ctx, d); err != nil {
		return err
	}

	id, err := d.Submit(ctx, a.api)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Listing created:", id)
	return nil
}

// uploadImages prompts for local image paths and uploads them as one batch.
// The user can repeat batches until they are done or the listing is full.
func (a *App) uploadImages(ctx context.Context, d *draft.Draft) error {
	for {
		line, err := getSimpleText(a.reader,
			fmt.Sprintf("Image files, space separated (%d of %d uploaded, empty line to finish)",
				len(d.ImageURLs), uploader.MaxImagesPerListing), os.Stdout)
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}

		files, err := openImageFiles(strings.Fields(line))
		if err != nil {
			printlnFn(err.Error())
			continue
		}

		urls, err := a.uploader.SubmitImages(ctx, files, d.ImageURLs)
		closeImageFiles(files)
		if err != nil {
			printlnFn(err.Error())
			continue
		}
		d.ImageURLs = urls
	}
}

// ShowListing fetches a listing by id and prints it.
func (a *App) ShowListing(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter listing id", os.Stdout)
	if err != nil {
		return err
	}

	listing, err := a.api.GetListing(ctx, id)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("%s (%s)", listing.Name, listing.Type))
	printlnFn(listing.Address)
	printlnFn(listing.Description)
	printlnFn(fmt.Sprintf("Beds: %d  Baths: %d", listing.Bedrooms, listing.Bathrooms))
	if listing.Offer {
		printlnFn(fmt.Sprintf("Price: %d (discounted from %d)", listing.DiscountPrice, listing.RegularPrice))
	} else {
		printlnFn(fmt.Sprintf("Price: %d", listing.RegularPrice))
	}
	for _, url := range listing.ImageURLs {
		printlnFn("Image:", url)
	}
	return nil
}

func openImageFiles(paths []string) ([]uploader.File, error) {
	files := make([]uploader.File, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			closeImageFiles(files)
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		f, err := os.Open(path)
		if err != nil {
			closeImageFiles(files)
			return nil, fmt.Errorf("cannot open %s: %w", path, err)
		}
		files = append(files, uploader.File{
			Name:   filepath.Base(path),
			Size:   info.Size(),
			Reader: f,
		})
	}
	return files, nil
}

func closeImageFiles(files []uploader.File) {
	for _, f := range files {
		if c, ok := f.Reader.(interface{ Close() error }); ok {
			c.Close()
		}
	}
}
