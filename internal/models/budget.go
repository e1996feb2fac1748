package models

import (
	"fmt"
	"strings"
)

type TravelStyle string

const (
	StyleBudget   TravelStyle = "budget"
	StyleModerate TravelStyle = "moderate"
	StyleLuxury   TravelStyle = "luxury"
)

const (
	MinDuration  = 1
	MaxDuration  = 30
	MinTravelers = 1
	MaxTravelers = 10
)

func (s TravelStyle) Valid() bool {
	switch s {
	case StyleBudget, StyleModerate, StyleLuxury:
		return true
	}
	return false
}

// BudgetRequest is the trip description submitted by the budget calculator form.
type BudgetRequest struct {
	Destination string      `json:"destination"`
	Duration    int         `json:"duration"`
	Travelers   int         `json:"travelers"`
	TravelStyle TravelStyle `json:"travelStyle"`
}

// Validate reports absent fields and fields that are present but out of range.
func (r BudgetRequest) Validate() (missing []string, invalid map[string]string) {
	invalid = map[string]string{}

	if strings.TrimSpace(r.Destination) == "" {
		missing = append(missing, "destination")
	}
	if r.Duration == 0 {
		missing = append(missing, "duration")
	} else if r.Duration < MinDuration || r.Duration > MaxDuration {
		invalid["duration"] = fmt.Sprintf("Duration must be between %d and %d days", MinDuration, MaxDuration)
	}
	if r.Travelers == 0 {
		missing = append(missing, "travelers")
	} else if r.Travelers < MinTravelers || r.Travelers > MaxTravelers {
		invalid["travelers"] = fmt.Sprintf("Travelers must be between %d and %d", MinTravelers, MaxTravelers)
	}
	if r.TravelStyle == "" {
		missing = append(missing, "travelStyle")
	} else if !r.TravelStyle.Valid() {
		invalid["travelStyle"] = "Travel style must be one of budget, moderate, luxury"
	}

	return missing, invalid
}
