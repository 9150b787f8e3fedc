// Package httpapi exposes the RealHome HTTP surface: auth endpoints issuing
// the access_token cookie, presigned-upload tickets, and the listing CRUD
// endpoints.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vpetrenko/realhome/internal/logging"
	"github.com/vpetrenko/realhome/internal/server/models"
	"github.com/vpetrenko/realhome/internal/server/services"
)

// UserAuthenticator is the slice of UserService the handlers need.
type UserAuthenticator interface {
	SignUp(ctx context.Context, username, email, password string) error
	SignIn(ctx context.Context, email, password string) (*models.User, string, error)
	FederatedSignIn(ctx context.Context, email, displayName, photoURL string) (*models.User, string, error)
	SessionValidityDuration() time.Duration
}

// ListingProvider is the slice of ListingService the handlers need.
type ListingProvider interface {
	Create(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	Get(ctx context.Context, id string) (*models.Listing, error)
	PresignUpload(ctx context.Context, fileName string, size int64) (*services.UploadTicket, error)
}

type Server struct {
	addr     string
	secret   []byte
	logger   logging.Logger
	users    UserAuthenticator
	listings ListingProvider
	inner    *http.Server
}

func NewServer(addr string, secret string, logger logging.Logger, users UserAuthenticator, listings ListingProvider) *Server {
	s := &Server{
		addr:     addr,
		secret:   []byte(secret),
		logger:   logger,
		users:    users,
		listings: listings,
	}

	s.inner = &http.Server{
		Addr:              addr,
		Handler:           withLogging(logger, s.Routes()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Routes builds the request multiplexer. Exposed so tests can drive the
// handlers through httptest without binding a socket.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /api/auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /api/auth/google", s.handleGoogle)
	mux.HandleFunc("POST /api/auth/signout", s.handleSignOut)

	mux.HandleFunc("POST /api/upload/presign", requireAuth(s.secret, s.handlePresignUpload))
	mux.HandleFunc("POST /api/listing/create", requireAuth(s.secret, s.handleCreateListing))
	mux.HandleFunc("GET /api/listing/{id}", s.handleGetListing)

	return mux
}

// Run serves HTTP traffic until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		if err := s.inner.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return s.inner.Shutdown(shutdownCtx)
}
