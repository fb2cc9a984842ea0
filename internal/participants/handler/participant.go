package handler

import (
	"encoding/json"
	"net/http"

	"slotboard/internal/participants/service"
	httputil "slotboard/pkg/http"
	"slotboard/pkg/logger"
	"slotboard/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ParticipantHandler struct {
	service service.ParticipantService
	log     *logger.Logger
}

func NewParticipantHandler(service service.ParticipantService, log *logger.Logger) *ParticipantHandler {
	return &ParticipantHandler{
		service: service,
		log:     log,
	}
}

func (h *ParticipantHandler) Submit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("id")

	var participant model.Participant
	if err := json.NewDecoder(r.Body).Decode(&participant); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.Submit(r.Context(), roomID, &participant); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, participant)
}

func (h *ParticipantHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("id")
	participantID := ps.ByName("participantId")

	if err := h.service.Cancel(r.Context(), roomID, participantID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ParticipantHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rooms/:id/participants", h.Submit)
	router.DELETE("/api/v1/rooms/:id/participants/:participantId", h.Cancel)
}
