package services

import (
	"strings"

	"yatra-backend/internal/models"
)

var popularDestinations = []models.Destination{
	{
		Name:        "Taj Mahal, Agra",
		Description: "Iconic white marble mausoleum and UNESCO World Heritage site",
		BestTime:    "October-March",
		TravelTime:  "3-4 hours from Delhi",
	},
	{
		Name:        "Jaipur, Rajasthan",
		Description: "The 'Pink City' with stunning palaces and forts",
		BestTime:    "October-March",
		TravelTime:  "5-6 hours from Delhi",
	},
	{
		Name:        "Goa Beaches",
		Description: "Beautiful beaches, nightlife, and Portuguese influence",
		BestTime:    "November-February",
		TravelTime:  "1-2 hour flight from Mumbai",
	},
	{
		Name:        "Varanasi, Uttar Pradesh",
		Description: "Ancient spiritual city on the banks of the Ganges River",
		BestTime:    "October-March",
		TravelTime:  "1.5 hour flight from Delhi",
	},
}

var destinationNames = []string{
	"Delhi", "Mumbai", "Jaipur", "Agra", "Goa",
	"Kerala", "Varanasi", "Udaipur", "Darjeeling", "Rishikesh",
	"Amritsar", "Kolkata", "Chennai", "Hyderabad", "Bangalore",
}

const maxNameSuggestions = 5

// SearchDestinations returns popular destinations whose name contains query.
// An empty query returns the whole catalog.
func SearchDestinations(query string) []models.Destination {
	q := strings.ToLower(strings.TrimSpace(query))
	results := make([]models.Destination, 0, len(popularDestinations))
	for _, d := range popularDestinations {
		if q == "" || strings.Contains(strings.ToLower(d.Name), q) {
			results = append(results, d)
		}
	}
	return results
}

// SuggestDestinationNames autocompletes the budget form's destination field.
// Queries shorter than two characters yield nothing.
func SuggestDestinationNames(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []string{}
	if len(q) < 2 {
		return out
	}
	for _, name := range destinationNames {
		if strings.Contains(strings.ToLower(name), q) {
			out = append(out, name)
			if len(out) == maxNameSuggestions {
				break
			}
		}
	}
	return out
}

func ExampleQuestions() models.Suggestions {
	return models.Suggestions{
		Chat: []string{
			"What are the best places to visit in Rajasthan?",
			"How much should I budget for a week in Goa?",
			"What's the best time to visit Kerala?",
			"What should I pack for a trip to the Himalayas?",
		},
		Language: []string{
			"How do I say thank you in Hindi?",
			"Teach me basic greetings in Tamil",
			"What are some polite phrases in Bengali?",
			"How to ask for directions in Telugu?",
		},
		QuickActions: map[string]string{
			"itinerary":   "Create a 7-day itinerary for the Golden Triangle (Delhi, Agra, Jaipur) for a first-time visitor to India.",
			"packing":     "Create a packing list for a 2-week trip to India covering both North and South regions.",
			"safety_tips": "What are important safety tips for solo travelers in India?",
		},
	}
}
