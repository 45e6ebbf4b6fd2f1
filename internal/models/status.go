package models

import "time"

// StatusLevel classifies a status message.
type StatusLevel string

const (
	StatusLevelNormal StatusLevel = "normal"
	StatusLevelError  StatusLevel = "error"
)

// StatusSlot names a display slot on the page.
type StatusSlot string

const (
	StatusSlotParse    StatusSlot = "parse"
	StatusSlotSimulate StatusSlot = "simulate"
)

// Status is the current text of one display slot.
type Status struct {
	Slot      StatusSlot  `json:"slot"`
	Level     StatusLevel `json:"level"`
	Text      string      `json:"text"`
	UpdatedAt time.Time   `json:"updated_at"`
}
