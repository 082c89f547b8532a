package scoring

import "errors"

var (
	ErrNoParticipants       = errors.New("session needs at least one participant")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
	ErrTeamMemberUnknown    = errors.New("team member is not a session player")
	ErrTeamWithoutMembers   = errors.New("team has no members")
	ErrMemberInTwoTeams     = errors.New("player is a member of more than one team")
	ErrParticipantNotFound  = errors.New("participant not found in session")
	ErrAlreadyScored        = errors.New("participant already scored this round")
	ErrSessionNotActive     = errors.New("session is not active")
)
