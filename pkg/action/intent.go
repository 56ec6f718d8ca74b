package action

// IntentKind tags the parsed interpretation of a player input.
type IntentKind string

const (
	IntentMove    IntentKind = "move"
	IntentBrowse  IntentKind = "browse"
	IntentExamine IntentKind = "examine"
	IntentTake    IntentKind = "take"
	IntentDrop    IntentKind = "drop"
	IntentUse     IntentKind = "use"
	IntentOpen    IntentKind = "open"
	IntentClose   IntentKind = "close"
	IntentTalk    IntentKind = "talk"
	IntentGive    IntentKind = "give"
	IntentSearch  IntentKind = "search"
	IntentWait    IntentKind = "wait"
	IntentFlavor  IntentKind = "flavor"
)

// Intent is the structured form of "what the player is attempting".
// Target ids other than Raw come from the parser and may still be
// illegal; only the validators decide legality. A Flavor intent is the
// deliberate no-clean-interpretation case: it reaches the narrator but
// never mutates state.
type Intent struct {
	Kind IntentKind `json:"kind"`

	Direction string `json:"direction,omitempty"` // move
	TargetID  string `json:"target_id,omitempty"` // examine/take/drop/use/open/close/search, npc for talk
	Instrument string `json:"instrument,omitempty"` // use: item applied to the target
	Topic      string `json:"topic,omitempty"`      // talk: conversation topic, or examine: detail topic
	ItemID     string `json:"item_id,omitempty"`    // give: the item offered
	Raw        string `json:"raw,omitempty"`        // original player text

	// Flavor-only context for the narrator.
	ActionHint string `json:"action_hint,omitempty"` // verb recognized but target unresolved
	NearTarget string `json:"near_target,omitempty"` // partially resolved target, if any
}

// Flavor builds the fallback intent for input with no mechanical
// interpretation.
func Flavor(raw, hint, nearTarget string) Intent {
	return Intent{
		Kind:       IntentFlavor,
		Raw:        raw,
		ActionHint: hint,
		NearTarget: nearTarget,
	}
}
