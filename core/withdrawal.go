package core

import "slices"

// Returns true when the participant withdrew from the tournament
func (t *Tournament) IsWithdrawn(participantId string) bool {
	return slices.Contains(t.Withdrawn, participantId)
}

// Returns the participants that did not withdraw
func (t *Tournament) ActiveParticipants() []Participant {
	if len(t.Withdrawn) == 0 {
		return t.Participants
	}
	return slices.DeleteFunc(slices.Clone(t.Participants), func(p Participant) bool {
		return t.IsWithdrawn(p.Id)
	})
}

// Lists the matches that a participant would forfeit
// if WithdrawParticipant was called
func WithdrawalMatches(t Tournament, participantId string) []Match {
	return filterMatches(t.Matches, func(m Match) bool {
		return !m.Played && m.ContainsPlayer(participantId)
	})
}

// Withdraws the participant from a tournament in progress.
//
// Every unplayed match of the participant is a walkover for the
// opponent, including matches of rounds that are generated later.
// Swiss rounds leave withdrawn participants out. Unknown and already
// withdrawn participants are ignored.
func WithdrawParticipant(t Tournament, participantId string) Tournament {
	if t.Status != StatusInProgress || t.IsWithdrawn(participantId) {
		return t
	}
	if _, ok := t.Participant(participantId); !ok {
		return t
	}

	next := t.Clone()
	next.Withdrawn = append(next.Withdrawn, participantId)
	return Progress(next)
}

// Reenters a withdrawn participant into the matches that are still
// to be generated. Walkovers that were already recorded stay.
func ReenterParticipant(t Tournament, participantId string) Tournament {
	if !t.IsWithdrawn(participantId) || t.Status == StatusCompleted {
		return t
	}

	next := t.Clone()
	next.Withdrawn = slices.DeleteFunc(next.Withdrawn, func(id string) bool { return id == participantId })
	return Progress(next)
}

// Resolves a match that involves a withdrawn participant. The side
// that neither withdrew nor is a bye wins. When there is no such
// side the match is played without a winner. Returns false when no
// withdrawn participant is involved.
func ResolveWalkover(m Match, withdrawn []string) (Outcome, bool) {
	out1 := slices.Contains(withdrawn, m.Slot1.ParticipantId) && !m.Slot1.IsBye()
	out2 := slices.Contains(withdrawn, m.Slot2.ParticipantId) && !m.Slot2.IsBye()
	if !out1 && !out2 {
		return Outcome{}, false
	}

	outcome := Outcome{Played: true, Walkover: true}
	switch {
	case !out1 && !m.Slot1.IsBye():
		outcome.Winner = m.Slot1.ParticipantId
	case !out2 && !m.Slot2.IsBye():
		outcome.Winner = m.Slot2.ParticipantId
	}
	return outcome, true
}
