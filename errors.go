package server

import "errors"

var (
	// ErrRoomNotFound reports an unknown room id.
	ErrRoomNotFound = errors.New("room not found")
	// ErrSessionNotFound reports an unknown player id within a room.
	ErrSessionNotFound = errors.New("session not found")
	// ErrMatchFinished reports an action against a room that already has a
	// winner and is waiting for an explicit restart.
	ErrMatchFinished = errors.New("match finished")
)
