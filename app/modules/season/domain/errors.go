package seasondomain

import "errors"

var (
	ErrNoActiveSeason      = errors.New("no active season")
	ErrSeasonAlreadyActive = errors.New("a season is already active")
	ErrSeasonClosed        = errors.New("season is closed")
	ErrSeasonNotFound      = errors.New("season not found")
	ErrInvalidMatch        = errors.New("invalid match result")
	ErrEventExists         = errors.New("tournament already in season")
	ErrEventNotFound       = errors.New("tournament not in season")
)
