package action

// RejectionCode is the closed taxonomy of reasons a validator can
// refuse an intent. Each code maps to exactly one narration strategy;
// a raw system error string never reaches the player.
type RejectionCode string

const (
	RejectNoExit             RejectionCode = "no_exit"
	RejectExitLocked         RejectionCode = "exit_locked"
	RejectExitBlocked        RejectionCode = "exit_blocked"
	RejectPreconditionFailed RejectionCode = "precondition_failed"
	RejectItemNotHere        RejectionCode = "item_not_here"
	RejectItemNotVisible     RejectionCode = "item_not_visible"
	RejectItemNotPortable    RejectionCode = "item_not_portable"
	RejectAlreadyHave        RejectionCode = "already_have"
	RejectNotCarried         RejectionCode = "not_carried"
	RejectNotAContainer      RejectionCode = "not_a_container"
	RejectAlreadyOpen        RejectionCode = "already_open"
	RejectAlreadyClosed      RejectionCode = "already_closed"
	RejectNPCNotPresent      RejectionCode = "npc_not_present"
	RejectNothingHappens     RejectionCode = "nothing_happens"
	RejectGameEnded          RejectionCode = "game_ended"
	RejectUnknownTarget      RejectionCode = "unknown_target"
)
