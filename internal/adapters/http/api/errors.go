package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnknownSkill = errors.New("unknown skill id")
	ErrNoHistory    = errors.New("no history stored for subject")
)
