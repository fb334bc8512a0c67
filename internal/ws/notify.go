package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ApplicationReceivedEvent struct {
	Type      string  `json:"type"`
	JobID     string  `json:"job_id"`
	UserID    string  `json:"user_id"`
	Score     float64 `json:"score"`
	Timestamp string  `json:"timestamp"`
}

// Notifier satisfies the admission engine's notification hook.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) ApplicationReceived(jobID uuid.UUID, userID string, score float64) {
	if n == nil || n.hub == nil {
		return
	}

	evt := ApplicationReceivedEvent{
		Type:      "application_received",
		JobID:     jobID.String(),
		UserID:    userID,
		Score:     score,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	n.hub.Broadcast(b)
}
