package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/vpetrenko/realhome/internal/common"
	sc "github.com/vpetrenko/realhome/internal/server/config"
	"github.com/vpetrenko/realhome/internal/server/models"
	"github.com/vpetrenko/realhome/internal/server/repositories/repomanager"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MaxImageSizeBytes caps a single listing image at 2 MiB.
const MaxImageSizeBytes = 2 << 20

// Validation failures surfaced to clients. The messages are part of the API.
var (
	ErrNoImages = common.NewValidationError("You must upload at least 1 image")

	ErrDiscountNotLower = common.NewValidationError("Discount price must be lower than regular price")

	ErrTooManyImages = common.NewValidationError("You can only upload 6 images per listing")

	ErrImageTooLarge = common.NewValidationError("Image upload failed (2 mb max per image)")

	ErrInvalidListingType = common.NewValidationError("Listing type must be sale or rent")
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// UploadTicket is everything a client needs to store one image: where to PUT
// the bytes and the durable URL the object will live at afterwards.
type UploadTicket struct {
	Key       string
	UploadURL string
	PublicURL string
}

type ListingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewListingService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *ListingService {
	return &ListingService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// GetStorageKey builds a collision-resistant object key from the current
// timestamp and the original file name.
func GetStorageKey(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("listings/%d%s", time.Now().UnixMilli(), name)
}

func (s *ListingService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload validates the declared size and returns an UploadTicket with
// a presigned PUT URL (15 minute expiry) bound to that content length.
func (s *ListingService) PresignUpload(ctx context.Context, fileName string, size int64) (*UploadTicket, error) {

	if size <= 0 || size > MaxImageSizeBytes {
		return nil, ErrImageTooLarge
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := GetStorageKey(fileName)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		ContentLength: &size,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return nil, err
	}

	return &UploadTicket{
		Key:       key,
		UploadURL: req.URL,
		PublicURL: s.publicURL(key),
	}, nil
}

func (s *ListingService) publicURL(key string) string {
	return strings.TrimRight(s.config.S3PublicBaseURL, "/") + "/" + key
}

// Create re-validates the submitted listing server-side and persists it.
// The owner reference must already be set from the verified session.
func (s *ListingService) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {

	if err := validateListing(listing); err != nil {
		return nil, err
	}

	repo := s.repomanager.Listings(s.db)

	created, err := repo.Create(ctx, listing)
	if err != nil {
		return nil, fmt.Errorf("error creating listing: %w", err)
	}

	return created, nil
}

// Get fetches a listing by its identifier.
func (s *ListingService) Get(ctx context.Context, id string) (*models.Listing, error) {

	repo := s.repomanager.Listings(s.db)

	listing, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error retrieving listing: %w", err)
	}

	return listing, nil
}

func validateListing(listing *models.Listing) error {
	if listing.Type != models.ListingTypeSale && listing.Type != models.ListingTypeRent {
		return ErrInvalidListingType
	}
	if len(listing.ImageURLs) < models.MinListingImages {
		return ErrNoImages
	}
	if len(listing.ImageURLs) > models.MaxListingImages {
		return ErrTooManyImages
	}
	if listing.Offer && listing.DiscountPrice >= listing.RegularPrice {
		return ErrDiscountNotLower
	}
	return nil
}
