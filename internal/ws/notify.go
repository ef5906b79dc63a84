package ws

import (
	"encoding/json"
	"strings"
	"time"
)

const EventMatchesReplaced = "matches_replaced"

type MatchesReplacedEvent struct {
	Type           string `json:"type"`
	JobID          string `json:"job_id"`
	Matches        int    `json:"matches"`
	ScoringVersion string `json:"scoring_version"`
	Timestamp      string `json:"timestamp"`
}

// Notifier pushes match replacement events to all connected viewers.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) MatchesReplaced(jobID string, matches int, scoringVersion string) {
	if n == nil || n.hub == nil {
		return
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return
	}

	evt := MatchesReplacedEvent{
		Type:           EventMatchesReplaced,
		JobID:          jobID,
		Matches:        matches,
		ScoringVersion: scoringVersion,
		Timestamp:      n.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
