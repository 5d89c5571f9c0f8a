package main

import "errors"

// Command validation failures. All are local: a rejected command leaves the
// session unchanged and the session stays playable. None are retried here;
// retry policy belongs to the caller.
var (
	ErrNotAuthorized    = errors.New("only the narrator can do that")
	ErrInvalidPhase     = errors.New("not allowed in the current phase")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrInvalidActor     = errors.New("your role cannot take this action")
	ErrInvalidTarget    = errors.New("invalid target")
	ErrVoterIneligible  = errors.New("you cannot vote this round")
)

// Storage collaborator errors.
var (
	ErrNotFound = errors.New("session not found")
	ErrConflict = errors.New("session was modified concurrently")
)
