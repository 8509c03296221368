package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mpetrenko/ordermart/internal/application/errs"
	"github.com/mpetrenko/ordermart/internal/application/interfaces"
	"github.com/mpetrenko/ordermart/internal/application/params"
	"github.com/mpetrenko/ordermart/internal/interface/api/rest/header"
	"github.com/mpetrenko/ordermart/internal/interface/api/rest/request"
	"github.com/mpetrenko/ordermart/pkg/logger"
)

type AuthController struct {
	service         interfaces.AuthService
	logger          logger.Logger
	tokenExpiration time.Duration
}

// NewAuthController registers http.Handlers with additional options.
func NewAuthController(
	service interfaces.AuthService,
	tokenExpiration time.Duration,
	logger logger.Logger,
	options ChiServerOptions,
) {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	c := AuthController{
		service:         service,
		tokenExpiration: tokenExpiration,
		logger:          logger,
	}

	r.Group(func(r chi.Router) {
		for _, middleware := range options.Middlewares {
			r.Use(middleware)
		}
		r.Post(options.BaseURL+"/register", c.Register)
		r.Post(options.BaseURL+"/login", c.Login)
	})
}

const MaxPasswordLength = 72

// Register user (POST /api/register HTTP/1.1).
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	// Check content type.
	if !header.IsApplicationJSONContentType(r) {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: invalid content type", errs.ErrInvalidRequest))
		return
	}

	// Read, decode payload and close request body.
	var p request.Register

	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		c.ErrorHandlerFunc(w, r, checkJSONDecodeError(err))
		return
	}

	// Check payload.
	if p.Login == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: login required", errs.ErrInvalidRequest))
		return
	}
	if p.Password == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: password required", errs.ErrInvalidRequest))
		return
	}
	if len(p.Password) > MaxPasswordLength {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: password too long", errs.ErrInvalidRequest))
		return
	}
	if p.DisplayName == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: display_name required", errs.ErrInvalidRequest))
		return
	}

	token, err := c.service.Register(r.Context(),
		params.NewRegister(p.Login, p.Password, p.DisplayName, p.Handle))
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.setAuthCookie(w, token)
	w.WriteHeader(http.StatusOK)
}

// Authentication (POST /api/login HTTP/1.1).
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	// Check content type.
	if !header.IsApplicationJSONContentType(r) {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: invalid content type", errs.ErrInvalidRequest))
		return
	}

	// Read, decode payload and close request body.
	var p request.Login

	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		c.ErrorHandlerFunc(w, r, checkJSONDecodeError(err))
		return
	}

	if p.Login == "" || p.Password == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: login and password required", errs.ErrInvalidRequest))
		return
	}

	token, err := c.service.Login(r.Context(), p.Login, p.Password)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.setAuthCookie(w, token)
	w.WriteHeader(http.StatusOK)
}

// setAuthCookie sets the "Authorization" cookie with the JWT
// authentication token.
func (c *AuthController) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "Authorization",
		Value:    token,
		Expires:  time.Now().Add(c.tokenExpiration),
		HttpOnly: true,
	})
}

// ErrorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal that.
func (c *AuthController) ErrorHandlerFunc(w http.ResponseWriter, _ *http.Request, err error) {
	errJSON := errs.JSON{Error: err.Error()}
	code := http.StatusInternalServerError

	switch {
	// Status Bad Request (400).
	case errors.Is(err, errs.ErrInvalidRequest):
		code = http.StatusBadRequest

	// Status Unauthorized (401).
	case errors.Is(err, errs.ErrInvalidCredentials):
		code = http.StatusUnauthorized

	// Status Conflict (409).
	case errors.Is(err, errs.ErrAlreadyExists):
		code = http.StatusConflict
	}

	w.WriteHeader(code)

	c.logger.Errorf("auth controller [%d]: %s", code, err)

	if err = json.NewEncoder(w).Encode(errJSON); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
