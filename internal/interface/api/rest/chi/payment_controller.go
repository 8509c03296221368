package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mpetrenko/ordermart/internal/application/errs"
	"github.com/mpetrenko/ordermart/internal/application/interfaces"
	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/interface/api/rest/header"
	"github.com/mpetrenko/ordermart/internal/interface/api/rest/request"
	"github.com/mpetrenko/ordermart/internal/interface/api/rest/response"
	"github.com/mpetrenko/ordermart/pkg/logger"
)

type PaymentController struct {
	service interfaces.PaymentService
	logger  logger.Logger
}

// NewPaymentController registers http.Handlers with additional options.
func NewPaymentController(
	service interfaces.PaymentService,
	logger logger.Logger,
	options ChiServerOptions,
	adminMiddlewares ...MiddlewareFunc,
) {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	c := PaymentController{
		service: service,
		logger:  logger,
	}

	r.Group(func(r chi.Router) {
		for _, middleware := range options.Middlewares {
			r.Use(middleware)
		}
		r.Get(options.BaseURL+"/payments/unpaid", c.GetUnpaidOrders)
	})

	r.Group(func(r chi.Router) {
		for _, middleware := range options.Middlewares {
			r.Use(middleware)
		}
		for _, middleware := range adminMiddlewares {
			r.Use(middleware)
		}
		r.Post(options.BaseURL+"/payments/{orderID}/price", c.SetPrice)
		r.Post(options.BaseURL+"/payments/{orderID}/confirm", c.ConfirmPayment)
		r.Post(options.BaseURL+"/payments/{orderID}/reject", c.RejectPayment)
	})
}

// Get the caller's unpaid orders (GET /api/payments/unpaid HTTP/1.1).
func (c *PaymentController) GetUnpaidOrders(w http.ResponseWriter, r *http.Request) {
	// Get user from context.
	u, found := user.FromContext(r.Context())
	if !found {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	unpaid, err := c.service.GetUnpaidOrders(r.Context(), u.ID)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	// Convert entities to handler response representation.
	res := make([]*response.GetUnpaidOrder, len(unpaid))
	for i, p := range unpaid {
		res[i] = response.NewGetUnpaidOrder(p)
	}

	w.Header().Set("Content-Type", "application/json")

	if err = json.NewEncoder(w).Encode(res); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}
}

// Set order price (POST /api/payments/{orderID}/price HTTP/1.1).
func (c *PaymentController) SetPrice(w http.ResponseWriter, r *http.Request) {
	// Check content type.
	if !header.IsApplicationJSONContentType(r) {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: invalid content type", errs.ErrInvalidRequest))
		return
	}

	orderID, err := entities.NewOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: malformed order id", errs.ErrInvalidRequest))
		return
	}

	// Read, decode and close request body.
	defer r.Body.Close()

	var payload request.SetPrice

	if err = json.NewDecoder(r.Body).Decode(&payload); err != nil {
		c.ErrorHandlerFunc(w, r, checkJSONDecodeError(err))
		return
	}

	if err = c.service.SetPrice(r.Context(), orderID, payload.Price); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Confirm payment (POST /api/payments/{orderID}/confirm HTTP/1.1).
func (c *PaymentController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	orderID, err := entities.NewOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: malformed order id", errs.ErrInvalidRequest))
		return
	}

	confirmed, err := c.service.ConfirmPayment(r.Context(), orderID)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	// Confirmed false means "already paid or absent": the admin sees a
	// no-op rather than a destructive error.
	if err = json.NewEncoder(w).Encode(response.ConfirmPayment{Confirmed: confirmed}); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}
}

// Reject payment (POST /api/payments/{orderID}/reject HTTP/1.1).
func (c *PaymentController) RejectPayment(w http.ResponseWriter, r *http.Request) {
	orderID, err := entities.NewOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: malformed order id", errs.ErrInvalidRequest))
		return
	}

	n, err := c.service.RejectPayment(r.Context(), orderID)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)

	if err = json.NewEncoder(w).Encode(n); err != nil {
		c.logger.Errorf("encode reject payment response: %s", err)
	}
}

// ErrorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal that.
func (c *PaymentController) ErrorHandlerFunc(w http.ResponseWriter, _ *http.Request, err error) {
	errJSON := errs.JSON{Error: err.Error()}
	code := http.StatusInternalServerError

	switch {
	// Status Not Found (404).
	case errors.Is(err, errs.ErrNotFound):
		code = http.StatusNotFound

	// Status Bad Request (400).
	case errors.Is(err, errs.ErrInvalidRequest):
		code = http.StatusBadRequest

	// Status Conflict (409).
	case errors.Is(err, errs.ErrDataConflict):
		code = http.StatusConflict
	}

	w.WriteHeader(code)

	c.logger.Errorf("payment controller [%d]: %s", code, err)

	if err = json.NewEncoder(w).Encode(errJSON); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
