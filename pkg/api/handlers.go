// Package api serves the lesson and order HTTP endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"lessonshop/pkg/idempotency"
	"lessonshop/pkg/lesson"
	"lessonshop/pkg/logger"
	"lessonshop/pkg/order"
	"lessonshop/pkg/otel"
)

const maxBodyBytes = 1 << 20

// IdempotencyHeader lets a client retry POST /orders without creating a second order.
const IdempotencyHeader = "Idempotency-Key"

// Handlers serves the lesson and order endpoints. It holds no data between
// requests; every call goes to the repositories.
type Handlers struct {
	lessons lesson.Repository
	orders  order.Repository
	idem    idempotency.Store
	log     *logger.Logger
	now     func() time.Time
}

// NewHandlers builds the handler set. idem may be nil.
func NewHandlers(lessons lesson.Repository, orders order.Repository, idem idempotency.Store, log *logger.Logger) *Handlers {
	return &Handlers{
		lessons: lessons,
		orders:  orders,
		idem:    idem,
		log:     log,
		now:     time.Now,
	}
}

// ListLessons returns every lesson.
// @Summary List lessons
// @Produce json
// @Success 200 {array} lesson.Lesson
// @Failure 500 {object} errorResponse
// @Router /lessons [get]
func (h *Handlers) ListLessons(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listLessons")
	defer span.End()

	lessons, err := h.lessons.List(ctx)
	if err != nil {
		h.fault(ctx, w, "list lessons", err, "failed to fetch lessons")
		return
	}
	h.reply(ctx, w, http.StatusOK, lessons)
}

// SearchLessons matches lessons by text and, for numeric queries, by price or spaces.
// @Summary Search lessons
// @Produce json
// @Param query query string true "Search text"
// @Success 200 {array} lesson.Lesson
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /search [get]
func (h *Handlers) SearchLessons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("query")
	ctx, span := otel.AddSpan(r.Context(), "searchLessons", attribute.String("query", q))
	defer span.End()

	lessons, err := lesson.Search(ctx, h.lessons, q)
	if errors.Is(err, lesson.ErrEmptyQuery) {
		h.replyError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.fault(ctx, w, "search lessons", err, "failed to search lessons")
		return
	}
	h.reply(ctx, w, http.StatusOK, lessons)
}

type spacesRequest struct {
	Spaces *float64 `json:"spaces"`
}

// UpdateLesson overwrites a lesson's seat count.
// @Summary Set lesson spaces
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param body body spacesRequest true "New seat count"
// @Success 200 {object} lesson.Lesson
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /lessons/{id} [put]
func (h *Handlers) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, span := otel.AddSpan(r.Context(), "updateLesson", attribute.String("lesson.id", id))
	defer span.End()

	var req spacesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.replyError(ctx, w, http.StatusBadRequest, lesson.ErrInvalidSpaces.Error())
		return
	}
	spaces, err := lesson.ValidateSpaces(req.Spaces)
	if err != nil {
		h.replyError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.lessons.SetSpaces(ctx, id, spaces)
	if errors.Is(err, lesson.ErrNotFound) {
		h.replyError(ctx, w, http.StatusNotFound, lesson.ErrNotFound.Error())
		return
	}
	if err != nil {
		h.fault(ctx, w, "update lesson", err, "failed to update lesson")
		return
	}
	h.reply(ctx, w, http.StatusOK, updated)
}

// ListOrders returns every order.
// @Summary List orders
// @Produce json
// @Success 200 {array} order.Order
// @Failure 500 {object} errorResponse
// @Router /orders [get]
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrders")
	defer span.End()

	orders, err := h.orders.List(ctx)
	if err != nil {
		h.fault(ctx, w, "list orders", err, "failed to fetch orders")
		return
	}
	h.reply(ctx, w, http.StatusOK, orders)
}

// CreateOrder validates and stores an order. Seat counts are not touched.
// @Summary Create order
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client retry key"
// @Param order body order.Order true "Order"
// @Success 201 {object} createdResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /orders [post]
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createOrder")
	defer span.End()

	var in order.Order
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		h.replyError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := order.Prepare(in, h.now())
	if order.IsValidation(err) {
		h.replyError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.fault(ctx, w, "prepare order", err, "failed to create order")
		return
	}

	key := r.Header.Get(IdempotencyHeader)
	locked := false
	if key != "" && h.idem != nil {
		if id, ok := h.recall(ctx, key); ok {
			h.reply(ctx, w, http.StatusCreated, createdResponse{Message: "Order created successfully", OrderID: id})
			return
		}
		ok, err := h.idem.TryLock(ctx, key)
		switch {
		case err != nil:
			h.log.Warn(ctx, "idempotency lock", "error", err)
		case !ok:
			if id, ok := h.recall(ctx, key); ok {
				h.reply(ctx, w, http.StatusCreated, createdResponse{Message: "Order created successfully", OrderID: id})
				return
			}
			h.replyError(ctx, w, http.StatusConflict, "an order with this idempotency key is in progress")
			return
		default:
			locked = true
		}
	}

	id, err := h.orders.Create(ctx, o)
	if err != nil {
		if locked {
			if err := h.idem.Release(ctx, key); err != nil {
				h.log.Warn(ctx, "idempotency release", "error", err)
			}
		}
		h.fault(ctx, w, "create order", err, "failed to create order")
		return
	}
	span.SetAttributes(attribute.String("order.id", id))

	if locked {
		if err := h.idem.Remember(ctx, key, id); err != nil {
			h.log.Warn(ctx, "idempotency remember", "error", err)
		}
	}
	h.reply(ctx, w, http.StatusCreated, createdResponse{Message: "Order created successfully", OrderID: id})
}

func (h *Handlers) recall(ctx context.Context, key string) (string, bool) {
	id, ok, err := h.idem.Recall(ctx, key)
	if err != nil {
		h.log.Warn(ctx, "idempotency recall", "error", err)
		return "", false
	}
	return id, ok
}
