package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/queuedesk/queue-backend/internal/adapters/primary/validation"
	"github.com/queuedesk/queue-backend/internal/core/domain"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

// SectorHandler handles HTTP requests for sectors and their queues.
type SectorHandler struct {
	sectorService ports.SectorService
	ticketService ports.TicketService
	queueService  ports.QueueService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewSectorHandler creates a new sector handler.
func NewSectorHandler(
	sectorService ports.SectorService,
	ticketService ports.TicketService,
	queueService ports.QueueService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *SectorHandler {
	return &SectorHandler{
		sectorService: sectorService,
		ticketService: ticketService,
		queueService:  queueService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "sector"),
	}
}

// RegisterPublicRoutes sets up the endpoints reachable without a token:
// the kiosk needs the sector list, and the per-desk call button and
// waiting-room board run on unattended devices.
func (h *SectorHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.HandleListSectors)
	r.Get("/{sectorID}/tickets", h.HandleSectorBoard)
	r.Post("/{sectorID}/call-next", h.HandleCallNext)
}

// RegisterProtectedRoutes sets up the staff-only sector endpoints.
// Registered flat: a nested Route on {sectorID} would collide with the
// public board and call-next paths under the same segment.
func (h *SectorHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/", h.HandleCreateSector)
	r.Get("/{sectorID}", h.HandleGetSector)
	r.Patch("/{sectorID}", h.HandleRenameSector)
	r.Delete("/{sectorID}", h.HandleDeleteSector)
}

// --- Request/Response DTOs ---

// SectorRequest defines the expected JSON body for creating or renaming
// a sector.
type SectorRequest struct {
	Name string `json:"name"`
}

// Validate validates the sector request.
func (r *SectorRequest) Validate() error {
	v := validation.NewValidator()
	v.Required("name", r.Name)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// SectorDTO defines the JSON response for sectors.
type SectorDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

// SectorListResponse wraps a list of sectors.
type SectorListResponse struct {
	Sectors []SectorDTO `json:"sectors"`
}

// CallNextResponse defines the JSON response for a successful call.
// TreatmentID is present only on operator calls; it is what the operator
// hands back to end the service.
type CallNextResponse struct {
	Ticket       TicketDTO `json:"ticket"`
	TreatmentID  *string   `json:"treatmentId,omitempty"`
	Sector       string    `json:"sector"`
	ServicePoint string    `json:"servicePoint,omitempty"`
}

func toSectorDTO(sector *domain.Sector) SectorDTO {
	var updatedAt *string
	if sector.UpdatedAt != nil {
		value := sector.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return SectorDTO{
		ID:        sector.ID.String(),
		Name:      sector.Name,
		CreatedAt: sector.CreatedAt.Format(time.RFC3339),
		UpdatedAt: updatedAt,
	}
}

func toCallNextResponse(result *ports.CallNextResult) CallNextResponse {
	var treatmentID *string
	if result.Treatment != nil {
		value := result.Treatment.ID.String()
		treatmentID = &value
	}

	return CallNextResponse{
		Ticket:       toTicketDTO(result.Ticket),
		TreatmentID:  treatmentID,
		Sector:       result.SectorName,
		ServicePoint: result.ServicePoint,
	}
}

// --- Handlers ---

// HandleListSectors handles GET /sectors
func (h *SectorHandler) HandleListSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.sectorService.ListSectors(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]SectorDTO, 0, len(sectors))
	for _, sector := range sectors {
		response = append(response, toSectorDTO(sector))
	}

	WriteJSON(w, http.StatusOK, SectorListResponse{Sectors: response})
}

// HandleCreateSector handles POST /sectors
func (h *SectorHandler) HandleCreateSector(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[SectorRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	sector, err := h.sectorService.CreateSector(r.Context(), req.Name)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("sector created", "sector_id", sector.ID, "name", sector.Name)

	WriteCreated(w, toSectorDTO(sector))
}

// HandleGetSector handles GET /sectors/{sectorID}
func (h *SectorHandler) HandleGetSector(w http.ResponseWriter, r *http.Request) {
	sectorID, err := parseUUIDParam(r, "sectorID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	sector, err := h.sectorService.GetSector(r.Context(), sectorID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toSectorDTO(sector))
}

// HandleRenameSector handles PATCH /sectors/{sectorID}
func (h *SectorHandler) HandleRenameSector(w http.ResponseWriter, r *http.Request) {
	sectorID, err := parseUUIDParam(r, "sectorID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[SectorRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	sector, err := h.sectorService.RenameSector(r.Context(), sectorID, req.Name)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("sector renamed", "sector_id", sectorID, "name", sector.Name)

	WriteJSON(w, http.StatusOK, toSectorDTO(sector))
}

// HandleDeleteSector handles DELETE /sectors/{sectorID}
func (h *SectorHandler) HandleDeleteSector(w http.ResponseWriter, r *http.Request) {
	sectorID, err := parseUUIDParam(r, "sectorID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.sectorService.DeleteSector(r.Context(), sectorID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("sector deleted", "sector_id", sectorID)

	WriteNoContent(w)
}

// HandleSectorBoard handles GET /sectors/{sectorID}/tickets
//
// Returns the sector's pending queue in call order for the waiting-room
// display.
func (h *SectorHandler) HandleSectorBoard(w http.ResponseWriter, r *http.Request) {
	sectorID, err := parseUUIDParam(r, "sectorID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	// Resolve the sector first so an unknown ID is a 404, not an empty list.
	if _, err := h.sectorService.GetSector(r.Context(), sectorID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	status := domain.StatusPending
	tickets, err := h.ticketService.ListTickets(r.Context(), ports.ListTicketsParams{
		Status:   &status,
		SectorID: &sectorID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, TicketListResponse{Tickets: toTicketDTOs(tickets)})
}

// HandleCallNext handles POST /sectors/{sectorID}/call-next
func (h *SectorHandler) HandleCallNext(w http.ResponseWriter, r *http.Request) {
	sectorID, err := parseUUIDParam(r, "sectorID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.queueService.CallNextForSector(r.Context(), sectorID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("customer called",
		"ticket_id", result.Ticket.ID,
		"sector_id", sectorID,
	)

	WriteJSON(w, http.StatusOK, toCallNextResponse(result))
}
