package repository

import "errors"

// Sentinel kinds for local persistence errors.
var (
	ErrStorageFull = errors.New("local storage is full: clear old history or track fewer players to save new snapshots")
	ErrPersistence = errors.New("could not save data to local storage")
)
