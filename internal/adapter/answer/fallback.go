package answer

import (
	"fmt"
	"strings"
)

// Canned answers for topics students ask about most, served when the remote
// model is unreachable.
var cannedAnswers = []struct {
	keyword string
	answer  string
}{
	{
		keyword: "photosynthesis",
		answer:  "Photosynthesis is the process by which plants convert light energy from the sun into chemical energy (glucose). It occurs in chloroplasts and involves two main stages: light-dependent reactions and the Calvin cycle. Plants take in CO₂ and water, and with sunlight, produce glucose and oxygen. The equation is: 6CO₂ + 6H₂O + light energy → C₆H₁₂O₆ + 6O₂.",
	},
	{
		keyword: "water cycle",
		answer:  "The water cycle is the continuous movement of water through Earth's atmosphere, land, and oceans. Key processes include: evaporation (water becomes vapor), transpiration (plants release water vapor), condensation (vapor forms clouds), precipitation (rain/snow falls), and collection (water gathers in bodies of water). This cycle is powered by solar energy and gravity.",
	},
	{
		keyword: "earthquake",
		answer:  "Earthquakes are caused by the sudden release of energy stored in Earth's crust. This happens when tectonic plates move against each other along fault lines. When plates get stuck due to friction, stress builds up. When the stress becomes too great, plates suddenly slip, releasing energy as seismic waves that we feel as earthquakes.",
	},
}

// fallbackAnswer returns a canned answer matched on the question text, or a
// generic apology that names the question. Never empty.
func fallbackAnswer(question string) string {
	lower := strings.ToLower(question)
	for _, canned := range cannedAnswers {
		if strings.Contains(lower, canned.keyword) {
			return canned.answer
		}
	}
	return fmt.Sprintf("I'm having trouble connecting to the AI service right now, but I'd love to help you learn about %q. This is a great educational question! You might want to try researching this topic using reliable educational resources, or ask a teacher or tutor for detailed explanations. Feel free to ask another question, and I'll try again!", question)
}
