package models

type Destination struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BestTime    string `json:"bestTime"`
	TravelTime  string `json:"travelTime"`
}

type Suggestions struct {
	Chat         []string          `json:"chat"`
	Language     []string          `json:"language"`
	QuickActions map[string]string `json:"quickActions"`
}
