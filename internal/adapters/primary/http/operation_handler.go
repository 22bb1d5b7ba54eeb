package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/queuedesk/queue-backend/internal/adapters/primary/http/middleware"
	"github.com/queuedesk/queue-backend/internal/adapters/primary/validation"
	"github.com/queuedesk/queue-backend/internal/auth"
	"github.com/queuedesk/queue-backend/internal/core/domain"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

// OperationHandler handles HTTP requests for staff working sessions.
type OperationHandler struct {
	operationService ports.OperationService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

// NewOperationHandler creates a new operation handler.
func NewOperationHandler(
	operationService ports.OperationService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *OperationHandler {
	return &OperationHandler{
		operationService: operationService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "operation"),
	}
}

// RegisterRoutes sets up the routing for the operation endpoints.
// All of them require authentication.
func (h *OperationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleStartOperation)
	r.Get("/current", h.HandleCurrentOperation)
	r.Post("/{operationID}/finish", h.HandleFinishOperation)
}

// --- Request/Response DTOs ---

// StartOperationRequest defines the expected JSON body for starting a
// working session.
type StartOperationRequest struct {
	ServicePoint string `json:"servicePoint"`
}

// Validate validates the start operation request.
func (r *StartOperationRequest) Validate() error {
	v := validation.NewValidator()
	v.Required("servicePoint", r.ServicePoint)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// OperationDTO defines the JSON response for operations.
type OperationDTO struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	ServicePoint string  `json:"servicePoint"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    *string `json:"updatedAt"`
}

func toOperationDTO(operation *domain.Operation) OperationDTO {
	var updatedAt *string
	if operation.UpdatedAt != nil {
		value := operation.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return OperationDTO{
		ID:           operation.ID.String(),
		UserID:       operation.UserID.String(),
		ServicePoint: operation.ServicePoint,
		Status:       string(operation.Status),
		CreatedAt:    operation.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    updatedAt,
	}
}

// --- Handlers ---

// HandleStartOperation handles POST /operations
func (h *OperationHandler) HandleStartOperation(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[StartOperationRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	operation, err := h.operationService.StartOperation(r.Context(), claims.UserID, req.ServicePoint)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("operation started",
		"operation_id", operation.ID,
		"user_id", claims.UserID,
		"service_point", operation.ServicePoint,
	)

	WriteCreated(w, toOperationDTO(operation))
}

// HandleCurrentOperation handles GET /operations/current
func (h *OperationHandler) HandleCurrentOperation(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	operation, err := h.operationService.CurrentOperation(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toOperationDTO(operation))
}

// HandleFinishOperation handles POST /operations/{operationID}/finish
func (h *OperationHandler) HandleFinishOperation(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	operationID, err := parseUUIDParam(r, "operationID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	operation, err := h.operationService.FinishOperation(r.Context(), claims.UserID, operationID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("operation finished",
		"operation_id", operationID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toOperationDTO(operation))
}

// getClaims extracts the authenticated user's claims from the request
// context, writing a 401 when they are missing.
func getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}
