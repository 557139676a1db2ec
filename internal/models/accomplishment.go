package models

import "time"

// Validation is the lifecycle state of an accomplishment. PENDING is the
// only state that accepts a decision; VALIDATED and REFUSED are terminal.
type Validation string

const (
	ValidationPending   Validation = "PENDING"
	ValidationValidated Validation = "VALIDATED"
	ValidationRefused   Validation = "REFUSED"
)

func (v Validation) Decided() bool {
	return v == ValidationValidated || v == ValidationRefused
}

// Accomplishment is a user's proof submission against a challenge.
type Accomplishment struct {
	ID          int64      `json:"id"`
	ChallengeID int64      `json:"challengeId"`
	UserID      int64      `json:"userId"`
	Proof       string     `json:"proof"`
	Validation  Validation `json:"validation"`
	CreatedAt   time.Time  `json:"createdAt"`
}
