package services

import "errors"

var (
	ErrInvalidRating      = errors.New("rating must be between 0 and 10")
	ErrUnknownKind        = errors.New("invalid media type, use 'movie', 'serie' or 'anime'")
	ErrAlreadyRated       = errors.New("you have already rated this title, use update instead")
	ErrNotFound           = errors.New("not found")
	ErrMediaNotFound      = errors.New("media not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrListItemExists     = errors.New("title is already in this list")
	ErrInvalidInput       = errors.New("invalid input")
)
