// Package events publishes room and participant lifecycle events for
// downstream consumers (analytics, audit). Publishing is strictly
// best-effort: sends run on their own goroutine with a detached timeout
// context, and failures are logged, never surfaced to the request.
package events

import (
	"context"
	"os"
	"time"

	"slotboard/pkg/kafka"
	kafka_config "slotboard/pkg/kafka/config"
	kafka_middleware "slotboard/pkg/kafka/middleware"
	"slotboard/pkg/logger"
	"slotboard/pkg/model"
)

const (
	Topic    = "slotboard.events"
	DLQTopic = "slotboard.events.dlq"

	source        = "slotboard-api"
	schemaVersion = "1"

	TypeRoomCreated          = "room.created"
	TypeRoomDeleted          = "room.deleted"
	TypeParticipantSubmitted = "participant.submitted"
	TypeParticipantCancelled = "participant.cancelled"

	publishTimeout = 5 * time.Second
)

type Publisher interface {
	RoomCreated(room *model.Room)
	RoomDeleted(roomID string)
	ParticipantSubmitted(p *model.Participant, kind model.RoomKind)
	ParticipantCancelled(roomID, participantID string)
	Close() error
}

// NewPublisher returns a Kafka-backed publisher when brokers are configured
// and a no-op otherwise, so local setups run without a broker.
func NewPublisher(log *logger.Logger) Publisher {
	if os.Getenv(kafka_config.EnvKafkaBrokers) == "" {
		log.Info("Kafka brokers not configured, event publishing disabled")
		return &noopPublisher{}
	}

	cfg := kafka_config.Load()
	cfg.LogConfiguration(log.Info)

	producer, err := kafka.NewProducer(cfg, Topic, DLQTopic)
	if err != nil {
		log.Warn("Failed to initialize event producer, event publishing disabled", "error", err)
		return &noopPublisher{}
	}
	if cfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware())
	}

	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

type roomEvent struct {
	RoomID string         `json:"room_id"`
	Kind   model.RoomKind `json:"kind,omitempty"`
	Title  string         `json:"title,omitempty"`
}

type participantEvent struct {
	RoomID        string         `json:"room_id"`
	ParticipantID string         `json:"participant_id"`
	Kind          model.RoomKind `json:"kind,omitempty"`
	SlotCount     int            `json:"slot_count,omitempty"`
}

func (p *kafkaPublisher) RoomCreated(room *model.Room) {
	p.publish(TypeRoomCreated, room.ID, roomEvent{
		RoomID: room.ID,
		Kind:   room.Kind,
		Title:  room.Title,
	})
}

func (p *kafkaPublisher) RoomDeleted(roomID string) {
	p.publish(TypeRoomDeleted, roomID, roomEvent{RoomID: roomID})
}

func (p *kafkaPublisher) ParticipantSubmitted(participant *model.Participant, kind model.RoomKind) {
	p.publish(TypeParticipantSubmitted, participant.RoomID, participantEvent{
		RoomID:        participant.RoomID,
		ParticipantID: participant.ID,
		Kind:          kind,
		SlotCount:     len(participant.Slots),
	})
}

func (p *kafkaPublisher) ParticipantCancelled(roomID, participantID string) {
	p.publish(TypeParticipantCancelled, roomID, participantEvent{
		RoomID:        roomID,
		ParticipantID: participantID,
	})
}

// publish keys by room id so one room's events stay ordered on a partition.
func (p *kafkaPublisher) publish(eventType, key string, payload any) {
	msg := kafka.NewMessage().
		WithKey(key).
		WithEventType(eventType).
		WithSource(source).
		WithSchemaVersion(schemaVersion).
		WithValue(payload).
		Build()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.producer.Publish(ctx, msg); err != nil {
			p.log.Warn("Failed to publish event",
				"event_type", eventType,
				"key", key,
				"error", err,
			)
		}
	}()
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

func (*noopPublisher) RoomCreated(*model.Room)                              {}
func (*noopPublisher) RoomDeleted(string)                                   {}
func (*noopPublisher) ParticipantSubmitted(*model.Participant, model.RoomKind) {}
func (*noopPublisher) ParticipantCancelled(string, string)                  {}
func (*noopPublisher) Close() error                                         { return nil }
