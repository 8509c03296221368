package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mpetrenko/ordermart/internal/application/errs"
	"github.com/mpetrenko/ordermart/internal/application/interfaces"
	"github.com/mpetrenko/ordermart/internal/application/params"
	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/interface/api/rest/header"
	"github.com/mpetrenko/ordermart/internal/interface/api/rest/request"
	"github.com/mpetrenko/ordermart/internal/interface/api/rest/response"
	"github.com/mpetrenko/ordermart/pkg/logger"
)

type OrderController struct {
	service interfaces.OrderService
	logger  logger.Logger
}

// NewOrderController registers http.Handlers with additional options.
func NewOrderController(
	service interfaces.OrderService,
	logger logger.Logger,
	options ChiServerOptions,
	adminMiddlewares ...MiddlewareFunc,
) {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	c := OrderController{
		service: service,
		logger:  logger,
	}

	r.Group(func(r chi.Router) {
		for _, middleware := range options.Middlewares {
			r.Use(middleware)
		}
		r.Post(options.BaseURL+"/orders", c.CreateOrder)
		r.Get(options.BaseURL+"/orders/new", c.GetNewOrders)
		r.Get(options.BaseURL+"/orders/active", c.GetActiveOrders)
		r.Post(options.BaseURL+"/orders/{orderID}/claim", c.ClaimOrder)
	})

	r.Group(func(r chi.Router) {
		for _, middleware := range options.Middlewares {
			r.Use(middleware)
		}
		for _, middleware := range adminMiddlewares {
			r.Use(middleware)
		}
		r.Get(options.BaseURL+"/orders/{orderID}", c.GetOrder)
		r.Post(options.BaseURL+"/orders/{orderID}/complete", c.CompleteOrder)
	})
}

// Create new order (POST /api/orders HTTP/1.1).
func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	// Check content type.
	if !header.IsApplicationJSONContentType(r) {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: invalid content type", errs.ErrInvalidRequest))
		return
	}

	// Read, decode and close request body.
	defer r.Body.Close()

	var payload request.CreateOrder

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		c.ErrorHandlerFunc(w, r, checkJSONDecodeError(err))
		return
	}

	if payload.Subject == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: subject required", errs.ErrInvalidRequest))
		return
	}
	if payload.WorkType == "" {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: work_type required", errs.ErrInvalidRequest))
		return
	}

	// Get user from context.
	u, found := user.FromContext(r.Context())
	if !found {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	p := params.NewCreateOrder(u.ID, payload.Subject, payload.WorkType, payload.Details)

	id, err := c.service.CreateOrder(r.Context(), p)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err = json.NewEncoder(w).Encode(response.CreateOrder{ID: id}); err != nil {
		c.logger.Errorf("encode create order response: %s", err)
	}
}

// Claim order (POST /api/orders/{orderID}/claim HTTP/1.1).
func (c *OrderController) ClaimOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := entities.NewOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: malformed order id", errs.ErrInvalidRequest))
		return
	}

	// Get user from context.
	u, found := user.FromContext(r.Context())
	if !found {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err = c.service.ClaimOrder(r.Context(), orderID, u.ID); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Complete order (POST /api/orders/{orderID}/complete HTTP/1.1).
func (c *OrderController) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := entities.NewOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: malformed order id", errs.ErrInvalidRequest))
		return
	}

	if err = c.service.CompleteOrder(r.Context(), orderID); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Get order details (GET /api/orders/{orderID} HTTP/1.1).
func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := entities.NewOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		c.ErrorHandlerFunc(w, r, fmt.Errorf("%w: malformed order id", errs.ErrInvalidRequest))
		return
	}

	order, err := c.service.GetOrder(r.Context(), orderID)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err = json.NewEncoder(w).Encode(response.NewGetOrderFromOrderEntity(order)); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}
}

// Get unclaimed orders (GET /api/orders/new HTTP/1.1).
func (c *OrderController) GetNewOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.GetOrdersByStatus(r.Context(), entities.StatusNew)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.writeOrders(w, r, orders)
}

// Get the worker's active list (GET /api/orders/active HTTP/1.1).
func (c *OrderController) GetActiveOrders(w http.ResponseWriter, r *http.Request) {
	// Get user from context.
	u, found := user.FromContext(r.Context())
	if !found {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	orders, err := c.service.GetActiveOrders(r.Context(), u.ID)
	if err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}

	c.writeOrders(w, r, orders)
}

func (c *OrderController) writeOrders(
	w http.ResponseWriter, r *http.Request, orders []*entities.Order,
) {
	// Convert entities to handler response representation.
	res := make([]*response.GetOrder, len(orders))
	for i, order := range orders {
		res[i] = response.NewGetOrderFromOrderEntity(order)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(res); err != nil {
		c.ErrorHandlerFunc(w, r, err)
		return
	}
}

// ErrorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal that.
func (c *OrderController) ErrorHandlerFunc(w http.ResponseWriter, _ *http.Request, err error) {
	errJSON := errs.JSON{Error: err.Error()}
	code := http.StatusInternalServerError

	switch {
	// Status Not Found (404).
	case errors.Is(err, errs.ErrNotFound):
		code = http.StatusNotFound

	// Status Bad Request (400).
	case errors.Is(err, errs.ErrInvalidRequest):
		code = http.StatusBadRequest

	// Status Conflict (409): lost claim race or illegal transition.
	case errors.Is(err, errs.ErrOrderTaken),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrDataConflict):
		code = http.StatusConflict
	}

	w.WriteHeader(code)

	c.logger.Errorf("order controller [%d]: %s", code, err)

	if err = json.NewEncoder(w).Encode(errJSON); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
