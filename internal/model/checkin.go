package model

import (
	"time"
)

type CheckinStatus string

const (
	CheckinStatusFasting    CheckinStatus = "fasting"
	CheckinStatusNotFasting CheckinStatus = "not_fasting"
)

func (s CheckinStatus) Valid() bool {
	return s == CheckinStatusFasting || s == CheckinStatusNotFasting
}

// Checkin is a single day's answer. At most one exists per (Year, DateISO)
// and it is never changed once written.
type Checkin struct {
	ID        string        `db:"id" json:"-" bson:"_id"`
	Year      int           `db:"year" json:"year" bson:"year"`
	DateISO   string        `db:"date_iso" json:"dateISO" bson:"dateISO"`
	Status    CheckinStatus `db:"status" json:"status" bson:"status"`
	Reason    *string       `db:"reason" json:"reason,omitempty" bson:"reason,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt" bson:"createdAt"`
}

func (c *Checkin) IsFasting() bool {
	return c.Status == CheckinStatusFasting
}

// RejectReason explains why a submission was refused.
type RejectReason string

const (
	RejectLocked         RejectReason = "locked"
	RejectReasonTooShort RejectReason = "reason_too_short"
)

type SubmitResult struct {
	OK     bool         `json:"ok"`
	Reason RejectReason `json:"reason,omitempty"`
}

func Accepted() *SubmitResult {
	return &SubmitResult{OK: true}
}

func Rejected(reason RejectReason) *SubmitResult {
	return &SubmitResult{OK: false, Reason: reason}
}
