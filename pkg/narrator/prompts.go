package narrator

import "github.com/hazelcreek/fable-engine/pkg/action"

// SystemPrompt is the narrator contract. The only-describe-what-you-
// are-given constraint lives here, in the prompt, and is best-effort:
// the engine treats the returned prose as decoration, never as a
// channel that state flows through.
const SystemPrompt = `You are the narrator of a text adventure. Write second-person present-tense prose describing the turn's outcome.

Hard rules:
- Describe ONLY the entities, exits, and facts listed below. Never invent items, characters, places, or state.
- Never mention game mechanics, ids, flags, or that you are an AI.
- Keep it to one short paragraph, 2-4 sentences.
- When the outcome is a refusal, present it as a fact of the world, not an error.
- Vary your phrasing; the recent narration excerpts show what you already said.`

// FlavorPrompt extends the contract for turns with no mechanical
// effect: the player gets prose, the world does not change.
const FlavorPrompt = `The player's action had no mechanical effect. Narrate a brief, atmospheric response to the attempt. The world must remain exactly as described; nothing is gained, moved, opened, or revealed.`

// rejectionGuidance maps each rejection code to its narration
// strategy. One strategy per code; never a raw system error.
var rejectionGuidance = map[action.RejectionCode]string{
	action.RejectNoExit:             "There is no way to go in that direction. Describe the surroundings closing off that way.",
	action.RejectExitLocked:         "That way is locked. Convey the lock as a physical fact.",
	action.RejectExitBlocked:        "That way is blocked. Work the stated reason into the scene.",
	action.RejectPreconditionFailed: "Something required is still missing. Hint at the lack without naming mechanics.",
	action.RejectItemNotHere:        "The thing sought is not here. Let the search come up empty.",
	action.RejectItemNotVisible:     "The thing sought is not in view. The player senses nothing of it.",
	action.RejectItemNotPortable:    "The object will not be carried. Make its immovability concrete.",
	action.RejectAlreadyHave:        "The object is already in hand.",
	action.RejectNotCarried:         "The player is not carrying that.",
	action.RejectNotAContainer:      "The object has nothing to open or close.",
	action.RejectAlreadyOpen:        "It already stands open.",
	action.RejectAlreadyClosed:      "It is already shut.",
	action.RejectNPCNotPresent:      "No such person is here to address.",
	action.RejectNothingHappens:     "The attempt simply comes to nothing.",
	action.RejectUnknownTarget:      "Nothing here answers to that description.",
}

// GuidanceFor returns the narration strategy for a rejection code.
func GuidanceFor(code action.RejectionCode) string {
	if g, ok := rejectionGuidance[code]; ok {
		return g
	}
	return "The attempt comes to nothing."
}
