package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vpetrenko/realhome/internal/common"
	"github.com/vpetrenko/realhome/internal/server/models"
)

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type presignRequest struct {
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}

type presignResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

type createListingRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	Type          string   `json:"type"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	RegularPrice  int64    `json:"regularPrice"`
	DiscountPrice int64    `json:"discountPrice"`
	Offer         bool     `json:"offer"`
	Parking       bool     `json:"parking"`
	Furnished     bool     `json:"furnished"`
	ImageURLs     []string `json:"imageUrls"`
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.NewValidationError("invalid JSON payload")
	}
	return nil
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.users.SignUp(r.Context(), req.Username, req.Email, req.Password); err != nil {
		s.logger.Error(r.Context(), "signup failed", "error", err.Error())
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user created", "username", req.Username)
	writeJSON(w, http.StatusCreated, "User created successfully")
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := s.users.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, user.Public())
}

func (s *Server) handleGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := s.users.FederatedSignIn(r.Context(), req.Email, req.Name, req.Photo)
	if err != nil {
		s.logger.Error(r.Context(), "federated signin failed", "error", err.Error())
		writeError(w, err)
		return
	}

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, user.Public())
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, "User has been logged out!")
}

func (s *Server) handlePresignUpload(w http.ResponseWriter, r *http.Request) {
	var req presignRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ticket, err := s.listings.PresignUpload(r.Context(), req.FileName, req.Size)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, presignResponse{
		Key:       ticket.Key,
		UploadURL: ticket.UploadURL,
		PublicURL: ticket.PublicURL,
	})
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	var req createListingRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	listing := &models.Listing{
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		Type:          req.Type,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		RegularPrice:  req.RegularPrice,
		DiscountPrice: req.DiscountPrice,
		Offer:         req.Offer,
		Parking:       req.Parking,
		Furnished:     req.Furnished,
		ImageURLs:     req.ImageURLs,
		// owner comes from the verified session, never from the payload
		UserRef: userID,
	}

	created, err := s.listings.Create(r.Context(), listing)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "listing created", "id", created.ID, "userRef", userID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := s.listings.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(s.users.SessionValidityDuration()),
	})
}
