package main

import (
	"github.com/julienschmidt/httprouter"

	"slotboard/internal/events"
	"slotboard/internal/notify"
	participantshandler "slotboard/internal/participants/handler"
	participantsrepo "slotboard/internal/participants/repository"
	participantsservice "slotboard/internal/participants/service"
	participantsvalidator "slotboard/internal/participants/validator"
	roomshandler "slotboard/internal/rooms/handler"
	roomsrepo "slotboard/internal/rooms/repository"
	roomsservice "slotboard/internal/rooms/service"
	roomsvalidator "slotboard/internal/rooms/validator"
	"slotboard/pkg/app"
	"slotboard/pkg/config"
)

const ServiceName = "slotboard"

func main() {
	cfg := config.Load(ServiceName)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	// Log all configuration values
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Slotboard service")
	cfg.SetPostgres()

	apiHandler := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, apiHandler)
	serverApp.Run()
}

// apiHandler registers every route group on the shared router.
type apiHandler struct {
	rooms        *roomshandler.RoomHandler
	participants *participantshandler.ParticipantHandler
}

func (h *apiHandler) RegisterRoutes(router *httprouter.Router) {
	h.rooms.RegisterRoutes(router)
	h.participants.RegisterRoutes(router)
}

func initServices(cfg *config.Config) *apiHandler {
	publisher := events.NewPublisher(cfg.Log)
	notifier := notify.New(cfg)

	roomRepo := roomsrepo.NewPostgresRoomRepository(cfg)
	participantRepo := participantsrepo.NewPostgresParticipantRepository(cfg)

	roomService := roomsservice.NewRoomService(
		roomRepo,
		participantRepo,
		roomsvalidator.NewRoomValidator(cfg.Log),
		publisher,
		cfg,
	)
	participantService := participantsservice.NewParticipantService(
		participantRepo,
		roomRepo,
		participantsvalidator.NewParticipantValidator(cfg.Log),
		notifier,
		publisher,
		cfg,
	)

	cfg.Log.Info("Slotboard services initialized")
	return &apiHandler{
		rooms:        roomshandler.NewRoomHandler(roomService, cfg.Log),
		participants: participantshandler.NewParticipantHandler(participantService, cfg.Log),
	}
}
