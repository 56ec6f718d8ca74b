package action

// EventType tags a committed game occurrence.
type EventType string

const (
	EventLocationChanged EventType = "location_changed"
	EventSceneBrowsed    EventType = "scene_browsed"
	EventItemExamined    EventType = "item_examined"
	EventDetailExamined  EventType = "detail_examined"
	EventItemTaken       EventType = "item_taken"
	EventItemDropped     EventType = "item_dropped"
	EventContainerOpened EventType = "container_opened"
	EventContainerClosed EventType = "container_closed"
	EventItemRevealed    EventType = "item_revealed"
	EventFlagSet         EventType = "flag_set"
	EventTrustChanged    EventType = "trust_changed"
	EventNPCConversation EventType = "npc_conversation"
	EventItemGiven       EventType = "item_given"
	EventActionRejected  EventType = "action_rejected"
	EventVictoryAchieved EventType = "victory_achieved"
	EventFlavorAction    EventType = "flavor_action"
	EventWaited          EventType = "waited"
)

// Event records what actually happened during a turn. Events carry
// only resolved entity ids, never raw player descriptions; every event
// except ActionRejected and FlavorAction corresponds to exactly one
// committed state mutation.
type Event struct {
	Type EventType `json:"type"`

	From       string `json:"from,omitempty"` // location moves
	To         string `json:"to,omitempty"`
	FirstVisit bool   `json:"first_visit,omitempty"`

	ItemID      string `json:"item_id,omitempty"`
	ContainerID string `json:"container_id,omitempty"`
	NPCID       string `json:"npc_id,omitempty"`
	Topic       string `json:"topic,omitempty"`
	Flag        string `json:"flag,omitempty"`
	FlagValue   bool   `json:"flag_value,omitempty"`
	TrustDelta  int    `json:"trust_delta,omitempty"`

	// Pre-authored world text for the narrator to work from: examine
	// text, found text, detail text, NPC lines, interaction hints.
	Text string `json:"text,omitempty"`

	// ActionRejected payload.
	Code   RejectionCode `json:"code,omitempty"`
	Reason string        `json:"reason,omitempty"`

	// FlavorAction payload.
	Raw        string `json:"raw,omitempty"`
	ActionHint string `json:"action_hint,omitempty"`
}

// Rejected builds an ActionRejected event.
func Rejected(code RejectionCode, reason string) Event {
	return Event{Type: EventActionRejected, Code: code, Reason: reason}
}
