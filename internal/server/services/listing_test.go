package services

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpetrenko/realhome/internal/common"
	"github.com/vpetrenko/realhome/internal/server/config"
	"github.com/vpetrenko/realhome/internal/server/models"
)

type fakeListingsRepo struct {
	byID    map[string]*models.Listing
	created int

	createErr error
}

func newFakeListingsRepo() *fakeListingsRepo {
	return &fakeListingsRepo{byID: map[string]*models.Listing{}}
}

func (f *fakeListingsRepo) Create(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if l.ID == "" {
		l.ID = "listing-1"
	}
	f.byID[l.ID] = l
	f.created++
	return l, nil
}

func (f *fakeListingsRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return l, nil
}

func newListingService(t *testing.T, repo *fakeListingsRepo) *ListingService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	cfg := &config.Config{
		S3Bucket:        "listings",
		S3Region:        "us-east-1",
		S3BaseEndpoint:  "http://127.0.0.1:9000/",
		S3PublicBaseURL: "http://127.0.0.1:9000/listings/",
	}
	return NewListingService(db, &fakeRepoManager{listings: repo}, cfg)
}

func validListing() *models.Listing {
	return &models.Listing{
		Name:          "Cozy flat",
		Description:   "Two rooms near the park",
		Address:       "12 Main St",
		Type:          models.ListingTypeRent,
		Bedrooms:      2,
		Bathrooms:     1,
		RegularPrice:  100,
		DiscountPrice: 80,
		Offer:         true,
		ImageURLs:     []string{"http://img/1.png"},
		UserRef:       "user-1",
	}
}

func TestListingService_Create(t *testing.T) {
	repo := newFakeListingsRepo()
	s := newListingService(t, repo)

	created, err := s.Create(context.Background(), validListing())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, repo.created)
}

func TestListingService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Listing)
		wantErr error
	}{
		{
			name:    "no images",
			mutate:  func(l *models.Listing) { l.ImageURLs = nil },
			wantErr: ErrNoImages,
		},
		{
			name: "too many images",
			mutate: func(l *models.Listing) {
				l.ImageURLs = make([]string, 7)
			},
			wantErr: ErrTooManyImages,
		},
		{
			name: "discount not lower while offer active",
			mutate: func(l *models.Listing) {
				l.Offer = true
				l.RegularPrice = 50
				l.DiscountPrice = 100
			},
			wantErr: ErrDiscountNotLower,
		},
		{
			name: "discount equal to regular",
			mutate: func(l *models.Listing) {
				l.Offer = true
				l.RegularPrice = 100
				l.DiscountPrice = 100
			},
			wantErr: ErrDiscountNotLower,
		},
		{
			name:    "bad type",
			mutate:  func(l *models.Listing) { l.Type = "lease" },
			wantErr: ErrInvalidListingType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeListingsRepo()
			s := newListingService(t, repo)

			l := validListing()
			tt.mutate(l)

			_, err := s.Create(context.Background(), l)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Equal(t, 0, repo.created)
		})
	}
}

func TestListingService_Create_NoOfferIgnoresDiscount(t *testing.T) {
	repo := newFakeListingsRepo()
	s := newListingService(t, repo)

	l := validListing()
	l.Offer = false
	l.RegularPrice = 50
	l.DiscountPrice = 100

	_, err := s.Create(context.Background(), l)
	require.NoError(t, err)
}

func TestListingService_Get(t *testing.T) {
	repo := newFakeListingsRepo()
	s := newListingService(t, repo)

	created, err := s.Create(context.Background(), validListing())
	require.NoError(t, err)

	got, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	_, err = s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetStorageKey(t *testing.T) {
	key := GetStorageKey("my house.png")
	assert.True(t, strings.HasPrefix(key, "listings/"))
	assert.True(t, strings.HasSuffix(key, "my_house.png"))
	assert.NotContains(t, key, " ")

	// path components from the client are stripped
	key = GetStorageKey("../../etc/passwd")
	assert.True(t, strings.HasPrefix(key, "listings/"))
	assert.NotContains(t, strings.TrimPrefix(key, "listings/"), "/")
}

func TestListingService_PresignUpload_SizeLimit(t *testing.T) {
	s := newListingService(t, newFakeListingsRepo())

	_, err := s.PresignUpload(context.Background(), "a.png", MaxImageSizeBytes+1)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	_, err = s.PresignUpload(context.Background(), "a.png", 0)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestListingService_PresignUpload(t *testing.T) {
	origPresign := presignPutObject
	defer func() { presignPutObject = origPresign }()

	var gotKey string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotKey = aws.ToString(in.Key)
		require.EqualValues(t, 1024, aws.ToInt64(in.ContentLength))
		return &v4.PresignedHTTPRequest{URL: "http://signed/" + gotKey}, nil
	}

	s := newListingService(t, newFakeListingsRepo())

	ticket, err := s.PresignUpload(context.Background(), "house.png", 1024)
	require.NoError(t, err)
	assert.Equal(t, gotKey, ticket.Key)
	assert.Equal(t, "http://signed/"+gotKey, ticket.UploadURL)
	assert.Equal(t, "http://127.0.0.1:9000/listings/"+gotKey, ticket.PublicURL)
}
