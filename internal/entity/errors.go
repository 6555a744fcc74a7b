package entity

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrSlotTaken         = errors.New("slot_taken")
	ErrReferralDuplicate = errors.New("referred email already tracked")
)
