package merchant

import "github.com/leadline-ai/leadline/internal/fields"

// Templates holds predefined field sets for common merchant verticals.
// A merchant config names one by key; field overrides then apply on top.
var Templates = map[string][]fields.Spec{
	"interior_design": {
		{Key: "name", Type: fields.TypeName, Label: "Name", Required: true,
			Prompts: []string{"May I have your name?"}},
		{Key: "phone", Type: fields.TypePhone, Label: "Phone", Required: true,
			Prompts: []string{
				"What's your phone number?",
				"Could you share a contact number so I can follow up properly?",
				"Mind sharing your phone number? I'll WhatsApp you the next steps.",
			}},
		{Key: "location", Type: fields.TypeLocation, Label: "Location", Required: true,
			Prompts: []string{"What's the location of your property?"},
			Hint:    "For example, Mont Kiara, Bangsar, or Penang."},
		{Key: "style", Type: fields.TypeStyle, Label: "Style Preference", Required: true,
			Prompts: []string{"What kind of style or vibe do you want for your space?"},
			Hint:    "For example, modern minimalist, warm neutral, or industrial."},
		{Key: "scope", Type: fields.TypeText, Label: "Scope", Required: false,
			Prompts: []string{"Which spaces are in scope?"},
			Hint:    "For example, living and kitchen."},
		{Key: "budget", Type: fields.TypeCurrency, Label: "Budget", Required: false,
			Prompts: []string{"What's your budget range for this project?"}},
	},
	"real_estate": {
		{Key: "name", Type: fields.TypeName, Label: "Name", Required: true,
			Prompts: []string{"May I have your name?"}},
		{Key: "phone", Type: fields.TypePhone, Label: "Phone", Required: true,
			Prompts: []string{"What's your contact number?"}},
		{Key: "email", Type: fields.TypeEmail, Label: "Email", Required: true,
			Prompts: []string{"What's your email address?"}},
		{Key: "property_type", Type: fields.TypeChoice, Label: "Property Type", Required: true,
			Prompts: []string{"What type of property are you looking for?"},
			Choices: []string{"Apartment", "Condo", "House", "Townhouse", "Commercial"}},
		{Key: "budget", Type: fields.TypeCurrency, Label: "Budget", Required: true,
			Prompts: []string{"What's your budget range?"}},
		{Key: "location", Type: fields.TypeLocation, Label: "Preferred Location", Required: true,
			Prompts: []string{"Which area are you interested in?"}},
	},
	"restaurant": {
		{Key: "name", Type: fields.TypeName, Label: "Name", Required: true,
			Prompts: []string{"May I have your name for the reservation?"}},
		{Key: "phone", Type: fields.TypePhone, Label: "Phone", Required: true,
			Prompts: []string{"What's your contact number?"}},
		{Key: "party_size", Type: fields.TypeNumber, Label: "Party Size", Required: true,
			Prompts: []string{"How many people will be dining?"}},
		{Key: "date_time", Type: fields.TypeText, Label: "Date & Time", Required: true,
			Prompts: []string{"When would you like to make the reservation?"}},
		{Key: "dietary_restrictions", Type: fields.TypeText, Label: "Dietary Restrictions", Required: false,
			Prompts: []string{"Do you have any dietary restrictions or special requests?"}},
	},
	"fitness": {
		{Key: "name", Type: fields.TypeName, Label: "Name", Required: true,
			Prompts: []string{"What's your name?"}},
		{Key: "phone", Type: fields.TypePhone, Label: "Phone", Required: true,
			Prompts: []string{"What's your phone number?"}},
		{Key: "email", Type: fields.TypeEmail, Label: "Email", Required: true,
			Prompts: []string{"What's your email address?"}},
		{Key: "fitness_goal", Type: fields.TypeChoice, Label: "Fitness Goal", Required: true,
			Prompts: []string{"What's your primary fitness goal?"},
			Choices: []string{"Weight Loss", "Muscle Gain", "General Fitness", "Athletic Performance"}},
		{Key: "experience", Type: fields.TypeChoice, Label: "Experience Level", Required: true,
			Prompts: []string{"What's your fitness experience level?"},
			Choices: []string{"Beginner", "Intermediate", "Advanced"}},
	},
}
