package hub

import (
	"sort"

	"wanderwise/internal/model"
)

// MonitorService exposes read-only hub state for the monitor API.
type MonitorService struct {
	hub *Hub
}

func NewMonitorService(h *Hub) *MonitorService {
	return &MonitorService{hub: h}
}

// GetStats snapshots the registry.
func (m *MonitorService) GetStats() model.MonitorResponse {
	m.hub.mu.RLock()
	clients := make([]model.ClientInfo, 0, len(m.hub.registry))
	for userID, c := range m.hub.registry {
		clients = append(clients, model.ClientInfo{
			ClientID:      c.ID,
			UserID:        userID,
			Authenticated: c.Authenticated(),
		})
	}
	m.hub.mu.RUnlock()

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].UserID < clients[j].UserID
	})

	return model.MonitorResponse{
		Status:      "healthy",
		Connections: len(clients),
		Clients:     clients,
	}
}
