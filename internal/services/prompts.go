package services

import (
	"fmt"
	"strings"

	"yatra-backend/internal/models"
)

// Persona is the fixed instruction block that opens a conversational prompt.
type Persona struct {
	Name        string
	Instruction string
	Welcome     string
}

var PersonaTravel = Persona{
	Name: "travel",
	Instruction: `You are an expert travel assistant specializing in travel to India.
Provide helpful, accurate information about Indian destinations, budgeting, planning, local customs, and travel tips.
Be friendly, concise, and informative. If you don't know something, be honest about it.
Focus on providing practical advice that travelers to India can use.

When asked about destinations in India:
- Mention key attractions
- Suggest best times to visit
- Provide estimated costs
- Mention any cultural considerations or travel advisories

When asked about budgeting for India:
- Give specific price ranges in Indian Rupees (INR) when possible
- Suggest money-saving tips
- Consider different travel styles (budget, moderate, luxury)

Format your responses with clear sections and bullet points using Markdown formatting.
Use headings (##), subheadings (###), bullet points (*), bold (**text**), and other markdown features to make your responses easy to read.

Always provide information specific to India and its diverse regions, cultures, and attractions.`,
	Welcome: "Hi! I'm your AI travel assistant powered by Gemini. Ask me anything about destinations in India, travel tips, or planning advice!",
}

var PersonaLanguage = Persona{
	Name: "language",
	Instruction: `You are an expert language teacher specializing in Indian languages for travelers.
Your goal is to teach practical, essential phrases in Hindi, Tamil, Bengali, Telugu, Marathi, Gujarati, and other Indian languages.
Always provide:
- The phrase in the local script (e.g., Devanagari for Hindi)
- A phonetic pronunciation guide (English letters)
- The English translation
- Cultural notes when relevant

Format your responses clearly with markdown:
- Use headings (##) for language names
- Put phrases in bullet points with the format:
  * **Phrase in local script** (Pronunciation) - "English translation"
- Add cultural notes in italics when helpful

For pronunciation guides:
- Use simple English approximations
- Capitalize stressed syllables (e.g., "NA-mas-tay" for नमस्ते)
- Explain tricky sounds if needed

Focus on practical travel situations:
- Greetings and polite expressions
- Directions and transportation
- Shopping and bargaining
- Food and dining
- Emergencies and help

Keep responses concise but informative. If asked for many phrases, organize them by category.

Example format for Hindi:
## Hindi
* **नमस्ते** (NA-mas-tay) - "Hello/Greetings"
  *Cultural note: This is a universal greeting used at any time of day*
* **धन्यवाद** (DHUN-yuh-vaad) - "Thank you"`,
	Welcome: "Namaste! 🙏 I'm your AI language guide for traveling in India. I can teach you essential phrases in Hindi, Tamil, Bengali, and other Indian languages. Ask me for phrases or help with pronunciation!",
}

// BudgetCategories are the section headings the budget prompt asks for, in order.
var BudgetCategories = []string{
	"Transportation",
	"Accommodation",
	"Food and dining",
	"Activities and sightseeing",
	"Miscellaneous expenses",
}

var budgetCategoryHints = []string{
	"flights within India, local transportation, train travel, etc.",
	"total cost, cost per night",
	"cost per day per person",
	"must include at least 3 specific activities with prices",
	"souvenirs, tips, etc.",
}

// BuildBudgetPrompt interpolates the trip fields into the cost-breakdown template.
// User text is inserted verbatim.
func BuildBudgetPrompt(req models.BudgetRequest) string {
	var b strings.Builder

	b.WriteString("Act as a travel budget expert specializing in India travel. ")
	b.WriteString("Create a detailed budget estimate for a trip to India with the following details:\n")
	b.WriteString(fmt.Sprintf("- Destination in India: %s\n", req.Destination))
	b.WriteString(fmt.Sprintf("- Duration: %d days\n", req.Duration))
	b.WriteString(fmt.Sprintf("- Number of travelers: %d\n", req.Travelers))
	b.WriteString(fmt.Sprintf("- Travel style: %s (budget, moderate, luxury)\n\n", req.TravelStyle))

	b.WriteString("Provide a detailed breakdown of estimated costs in Indian Rupees (INR) for:\n")
	for i, category := range BudgetCategories {
		b.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, category, budgetCategoryHints[i]))
	}
	b.WriteString("\n")

	b.WriteString("Give a total estimated budget range in INR and at least 3 money-saving tips specific to this destination in India.\n\n")
	b.WriteString("Format the response using Markdown with headings (##), subheadings (###), bullet points (*), and other formatting to make it easy to read.\n")
	b.WriteString("Include a brief introduction about the destination and why it's worth visiting.\n")

	return b.String()
}

// BuildConversationPrompt linearizes the chat history under the persona and
// ends with an assistant cue. System messages are dropped from the history.
func BuildConversationPrompt(persona Persona, history []models.ChatMessage, last models.ChatMessage) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		if m.Role == models.RoleSystem {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", roleLabel(m.Role), m.Content))
	}

	var b strings.Builder
	b.WriteString(persona.Instruction)
	b.WriteString("\n\nConversation history:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nUser: ")
	b.WriteString(last.Content)
	b.WriteString("\n\nAssistant:")
	return b.String()
}

func roleLabel(role models.Role) string {
	if role == models.RoleUser {
		return "User"
	}
	return "Assistant"
}
