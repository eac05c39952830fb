package events

import (
	platformevents "ewaste_pickup_backend/platform/events"
	"ewaste_pickup_backend/platform/logger"
)

type InMemoryBus = platformevents.InMemoryBus

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
