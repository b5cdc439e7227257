package models

import (
	"gorm.io/gorm"
)

// CreditSource tags where a ledger entry came from
type CreditSource string

const (
	CreditSourceSponsor    CreditSource = "sponsor"
	CreditSourceCompletion CreditSource = "completion"
	CreditSourceCoach      CreditSource = "coach"
	CreditSourceSystem     CreditSource = "system"
)

// CreditTransaction is an append-only ledger entry. UserID is nil for
// pool-level entries such as incoming sponsor donations. A user's balance
// always equals the sum of their entries.
type CreditTransaction struct {
	gorm.Model
	UserID *uint        `json:"user_id" gorm:"index"`
	Amount int          `json:"amount" gorm:"not null"`
	Source CreditSource `json:"source" gorm:"type:varchar(30);not null;index"`
	Note   string       `json:"note"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

// SponsorDonation carries the undrawn remainder of one donation. Remaining
// only ever decreases and never drops below zero.
type SponsorDonation struct {
	gorm.Model
	SponsorID uint `json:"sponsor_id" gorm:"index;not null"`
	Amount    int  `json:"amount" gorm:"not null"`
	Remaining int  `json:"remaining" gorm:"not null"`
}
