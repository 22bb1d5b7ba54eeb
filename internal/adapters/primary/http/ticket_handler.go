package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/queuedesk/queue-backend/internal/adapters/primary/validation"
	"github.com/queuedesk/queue-backend/internal/core/domain"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

// TicketHandler handles HTTP requests for tickets.
type TicketHandler struct {
	ticketService ports.TicketService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewTicketHandler creates a new ticket handler.
func NewTicketHandler(
	ticketService ports.TicketService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "ticket"),
	}
}

// RegisterRoutes sets up the ticket endpoints. All of them are
// staff-only: tickets are registered at the desk, not self-service.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleCreateTicket)
	r.Get("/", h.HandleListTickets)
	r.Get("/{ticketID}", h.HandleGetTicket)
	r.Patch("/{ticketID}", h.HandleUpdateTicket)
	r.Post("/{ticketID}/cancel", h.HandleCancelTicket)
}

// --- Request/Response DTOs ---

// CreateTicketRequest defines the expected JSON body for creating a ticket.
type CreateTicketRequest struct {
	CustomerName string  `json:"customerName"`
	ServiceType  string  `json:"serviceType"`
	SectorID     *string `json:"sectorId"`
}

// Validate validates the create ticket request.
func (r *CreateTicketRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("customerName", r.CustomerName).
		MinLength("customerName", r.CustomerName, domain.MinCustomerNameLength)

	v.Required("serviceType", r.ServiceType).
		OneOf("serviceType", r.ServiceType, []string{
			string(domain.ServiceTypeService),
			string(domain.ServiceTypeRenegotiation),
		})

	if r.SectorID != nil {
		v.UUID("sectorId", *r.SectorID)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateTicketRequest defines the expected JSON body for editing a ticket.
// Absent fields are left untouched.
type UpdateTicketRequest struct {
	CustomerName *string `json:"customerName"`
	ServiceType  *string `json:"serviceType"`
	SectorID     *string `json:"sectorId"`
}

// Validate validates the update ticket request.
func (r *UpdateTicketRequest) Validate() error {
	v := validation.NewValidator()

	if r.CustomerName != nil {
		v.MinLength("customerName", *r.CustomerName, domain.MinCustomerNameLength)
	}

	if r.ServiceType != nil {
		v.OneOf("serviceType", *r.ServiceType, []string{
			string(domain.ServiceTypeService),
			string(domain.ServiceTypeRenegotiation),
		})
	}

	if r.SectorID != nil {
		v.UUID("sectorId", *r.SectorID)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// TicketDTO defines the JSON response for tickets.
type TicketDTO struct {
	ID           string  `json:"id"`
	CustomerName string  `json:"customerName"`
	Status       string  `json:"status"`
	ServiceType  string  `json:"serviceType"`
	SectorID     *string `json:"sectorId"`
	CalledAt     *string `json:"calledAt"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    *string `json:"updatedAt"`
}

// TicketListResponse wraps a list of tickets.
type TicketListResponse struct {
	Tickets []TicketDTO `json:"tickets"`
}

func toTicketDTO(ticket *domain.Ticket) TicketDTO {
	var sectorID *string
	if ticket.SectorID != nil {
		value := ticket.SectorID.String()
		sectorID = &value
	}

	var calledAt *string
	if ticket.CalledAt != nil {
		value := ticket.CalledAt.Format(time.RFC3339)
		calledAt = &value
	}

	var updatedAt *string
	if ticket.UpdatedAt != nil {
		value := ticket.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return TicketDTO{
		ID:           ticket.ID.String(),
		CustomerName: ticket.CustomerName,
		Status:       string(ticket.Status),
		ServiceType:  string(ticket.ServiceType),
		SectorID:     sectorID,
		CalledAt:     calledAt,
		CreatedAt:    ticket.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    updatedAt,
	}
}

func toTicketDTOs(tickets []*domain.Ticket) []TicketDTO {
	response := make([]TicketDTO, 0, len(tickets))
	for _, ticket := range tickets {
		response = append(response, toTicketDTO(ticket))
	}
	return response
}

// --- Handlers ---

// HandleListTickets handles GET /tickets
func (h *TicketHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	v := validation.NewValidator()
	params := ports.ListTicketsParams{}

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		switch status := domain.TicketStatus(statusStr); status {
		case domain.StatusPending, domain.StatusInService, domain.StatusCompleted, domain.StatusCanceled:
			params.Status = &status
		default:
			v.Custom("status", false, "Unknown ticket status")
		}
	}

	if typeStr := r.URL.Query().Get("service_type"); typeStr != "" {
		switch serviceType := domain.ServiceType(typeStr); serviceType {
		case domain.ServiceTypeService, domain.ServiceTypeRenegotiation:
			params.ServiceType = &serviceType
		default:
			v.Custom("service_type", false, "Unknown service type")
		}
	}

	if sectorIDStr := r.URL.Query().Get("sector_id"); sectorIDStr != "" {
		sectorID, err := uuid.Parse(sectorIDStr)
		if err != nil {
			v.Custom("sector_id", false, "Must be a valid UUID")
		} else {
			params.SectorID = &sectorID
		}
	}

	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	tickets, err := h.ticketService.ListTickets(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, TicketListResponse{Tickets: toTicketDTOs(tickets)})
}

// HandleCreateTicket handles POST /tickets
func (h *TicketHandler) HandleCreateTicket(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[CreateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateTicketParams{
		CustomerName: req.CustomerName,
		ServiceType:  domain.ServiceType(req.ServiceType),
	}
	if req.SectorID != nil && *req.SectorID != "" {
		sectorID, err := uuid.Parse(*req.SectorID)
		if err != nil {
			h.errorHandler.Handle(w, r, err)
			return
		}
		params.SectorID = &sectorID
	}

	ticket, err := h.ticketService.CreateTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket created",
		"ticket_id", ticket.ID,
		"service_type", ticket.ServiceType,
	)

	WriteCreated(w, toTicketDTO(ticket))
}

// HandleGetTicket handles GET /tickets/{ticketID}
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := parseUUIDParam(r, "ticketID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.ticketService.GetTicket(r.Context(), ticketID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleUpdateTicket handles PATCH /tickets/{ticketID}
func (h *TicketHandler) HandleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := parseUUIDParam(r, "ticketID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateTicketParams{
		TicketID:     ticketID,
		CustomerName: req.CustomerName,
	}
	if req.ServiceType != nil {
		serviceType := domain.ServiceType(*req.ServiceType)
		params.ServiceType = &serviceType
	}
	if req.SectorID != nil && *req.SectorID != "" {
		sectorID, err := uuid.Parse(*req.SectorID)
		if err != nil {
			h.errorHandler.Handle(w, r, err)
			return
		}
		params.SectorID = &sectorID
	}

	ticket, err := h.ticketService.UpdateTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket updated", "ticket_id", ticketID)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleCancelTicket handles POST /tickets/{ticketID}/cancel
func (h *TicketHandler) HandleCancelTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := parseUUIDParam(r, "ticketID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.ticketService.CancelTicket(r.Context(), ticketID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket canceled", "ticket_id", ticketID)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// parseUUIDParam extracts and validates a UUID path parameter.
func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	value, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		v := validation.NewValidator()
		v.Custom(name, false, "Must be a valid UUID")
		return uuid.Nil, v.Errors()
	}
	return value, nil
}
