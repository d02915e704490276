package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"profilr/internal/review/models"
	dErrors "profilr/pkg/domain-errors"
	"profilr/pkg/platform/httputil"
	"profilr/pkg/requestcontext"
)

const (
	HealthMessage         = "Profilr backend running successfully"
	MessageServerError    = "Server error"
	MessageReviewAdded    = "Review added"
	MessageAddFailed      = "Failed to add review"
	MessageInvalidBody    = "Invalid request body"
	MessageRouteNotFound  = "Route not found"
	MessageFieldsRequired = models.MessageFieldsRequired
)

// Service defines the review operations used by the handler.
type Service interface {
	List(ctx context.Context) ([]*models.Review, error)
	Create(ctx context.Context, in models.CreateReviewInput) (*models.Review, error)
}

// Handler serves the health check and the review routes.
type Handler struct {
	logger  *slog.Logger
	reviews Service
}

// New creates a review Handler.
func New(reviews Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		logger:  logger,
		reviews: reviews,
	}
}

// Register registers the health and review routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleHealth)
	r.Get("/api/reviews", h.HandleList)
	r.Post("/api/reviews", h.HandleCreate)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteText(w, http.StatusOK, HealthMessage)
}

// HandleList returns every review, newest first. Failure detail is logged, never returned.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reviews, err := h.reviews.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list reviews",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		status, body := errorResponse(err, listPolicy)
		httputil.WriteJSON(w, status, body)
		return
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	httputil.WriteJSON(w, http.StatusOK, reviews)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req CreateReviewRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid create review request",
			"request_id", requestID,
			"error", err.Error(),
		)
		status, body := errorResponse(dErrors.Wrap(err, dErrors.CodeBadRequest, MessageInvalidBody), createPolicy)
		httputil.WriteJSON(w, status, body)
		return
	}

	review, err := h.reviews.Create(ctx, req.toInput())
	if err != nil {
		status, body := errorResponse(err, createPolicy)
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(ctx, "failed to add review",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		httputil.WriteJSON(w, status, body)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, CreateReviewResponse{
		Message: MessageReviewAdded,
		Review:  review,
	})
}

// NotFound answers every unmatched method and path.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteMessage(w, http.StatusNotFound, MessageRouteNotFound)
}

type routePolicy struct {
	failureMessage string
	exposeDetail   bool
}

var (
	listPolicy   = routePolicy{failureMessage: MessageServerError}
	createPolicy = routePolicy{failureMessage: MessageAddFailed, exposeDetail: true}
)

// errorResponse maps a service error to the status and body a route returns.
// Client errors carry their own message; anything else uses the route's
// failure message and, when the route allows it, the underlying detail.
func errorResponse(err error, policy routePolicy) (int, httputil.MessageResponse) {
	status := dErrors.ToHTTPStatus(dErrors.CodeOf(err))
	if status < http.StatusInternalServerError {
		if de, ok := dErrors.As(err); ok {
			return status, httputil.MessageResponse{Message: de.Message}
		}
		return status, httputil.MessageResponse{Message: MessageInvalidBody}
	}

	body := httputil.MessageResponse{Message: policy.failureMessage}
	if policy.exposeDetail {
		body.Error = dErrors.Detail(err)
	}
	return http.StatusInternalServerError, body
}
