package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no record matches.
	ErrNotFound = errors.New("record not found")

	// ErrNoSpread means a game operation ran before a spread was selected.
	ErrNoSpread = errors.New("no spread selected")

	// ErrInvalidPosition means the position id does not exist in the
	// current spread.
	ErrInvalidPosition = errors.New("invalid spread position")

	// ErrPositionOccupied means the position already holds a drawn card.
	ErrPositionOccupied = errors.New("position already occupied")

	// ErrDeckEmpty means there is no card left to draw.
	ErrDeckEmpty = errors.New("deck is empty")

	// ErrReadingNotReady means a reading was requested before every
	// position was filled.
	ErrReadingNotReady = errors.New("not all positions are filled")

	// ErrNoActiveConversation means a chat operation ran without a
	// loaded conversation.
	ErrNoActiveConversation = errors.New("no active conversation")

	// ErrSendInProgress means a message send overlapped a pending one.
	ErrSendInProgress = errors.New("a message send is already in progress")

	// ErrSessionNotFound means no live game session matches the id.
	ErrSessionNotFound = errors.New("game session not found")
)
