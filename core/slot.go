package core

// A Slot is one of the two places in a Match.
//
// A Slot represents one of 2 things:
//   - An actual participant
//   - A free win (bye) for the match opponent
//
// The bye is a marker of its own and never a participant id,
// so a participant that happens to be named "BYE" is still a
// regular participant.
type Slot struct {
	ParticipantId string `json:"id,omitempty"`
	Bye           bool   `json:"bye,omitempty"`
}

func NewPlayerSlot(participantId string) Slot {
	return Slot{ParticipantId: participantId}
}

func NewByeSlot() Slot {
	return Slot{Bye: true}
}

func (s Slot) IsBye() bool {
	return s.Bye
}

// Returns true when the slot is occupied by the given participant
func (s Slot) Is(participantId string) bool {
	return !s.Bye && s.ParticipantId == participantId
}

func (s Slot) String() string {
	if s.Bye {
		return "[Bye]"
	}
	return s.ParticipantId
}
