// Package fields defines the catalog of collectible lead fields and their
// validation rules. A Registry is resolved once per session and is immutable
// for the session's lifetime.
package fields

// Type identifies how a field is extracted and validated.
type Type string

const (
	TypeText     Type = "text"
	TypeName     Type = "name"
	TypePhone    Type = "phone"
	TypeEmail    Type = "email"
	TypeLocation Type = "location"
	TypeStyle    Type = "style"
	TypeChoice   Type = "choice"
	TypeNumber   Type = "number"
	TypeCurrency Type = "currency"
)

// Default extraction acceptance thresholds. Tunable policy, not contract.
const (
	DefaultThreshold     = 0.6
	DefaultTextThreshold = 0.5
)

// Spec is the immutable definition of one collectible field.
type Spec struct {
	Key       string   `json:"key"`
	Type      Type     `json:"type"`
	Label     string   `json:"label"`
	Required  bool     `json:"required"`
	Prompts   []string `json:"prompts"`
	Hint      string   `json:"hint,omitempty"`
	Choices   []string `json:"choices,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`
}

// AcceptThreshold returns the candidate confidence this field requires.
func (s Spec) AcceptThreshold() float64 {
	if s.Threshold > 0 {
		return s.Threshold
	}
	if s.Type == TypeText {
		return DefaultTextThreshold
	}
	return DefaultThreshold
}

// Prompt returns the variant for the given ask count, rotating round-robin.
func (s Spec) Prompt(askCount int) string {
	if len(s.Prompts) == 0 {
		return ""
	}
	if askCount < 0 {
		askCount = 0
	}
	return s.Prompts[askCount%len(s.Prompts)]
}

// Registry is an ordered catalog of field specs for one session.
type Registry struct {
	specs []Spec
	byKey map[string]int
}

// NewRegistry builds a registry from ordered specs. Later specs with a
// duplicate key replace earlier ones while keeping the original position.
func NewRegistry(specs []Spec) *Registry {
	r := &Registry{byKey: make(map[string]int, len(specs))}
	for _, spec := range specs {
		if spec.Key == "" {
			continue
		}
		if idx, ok := r.byKey[spec.Key]; ok {
			r.specs[idx] = spec
			continue
		}
		r.byKey[spec.Key] = len(r.specs)
		r.specs = append(r.specs, spec)
	}
	return r
}

// All returns the specs in priority order.
func (r *Registry) All() []Spec {
	out := make([]Spec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Required returns the required specs in priority order.
func (r *Registry) Required() []Spec {
	var out []Spec
	for _, spec := range r.specs {
		if spec.Required {
			out = append(out, spec)
		}
	}
	return out
}

// Get looks a spec up by key.
func (r *Registry) Get(key string) (Spec, bool) {
	idx, ok := r.byKey[key]
	if !ok {
		return Spec{}, false
	}
	return r.specs[idx], true
}

// Len reports how many fields the registry carries.
func (r *Registry) Len() int {
	return len(r.specs)
}

// DefaultRegistry mirrors the stock interior-design field set: name, phone,
// style and location are required; scope and budget are collected
// opportunistically.
func DefaultRegistry() *Registry {
	return NewRegistry([]Spec{
		{
			Key:      "name",
			Type:     TypeName,
			Label:    "Name",
			Required: true,
			Prompts: []string{
				"May I have your name?",
				"Could I get your name so I can personalize things?",
			},
		},
		{
			Key:      "phone",
			Type:     TypePhone,
			Label:    "Phone",
			Required: true,
			Prompts: []string{
				"What's the best phone number to reach you?",
				"Could you share a contact number so I can follow up properly?",
				"Mind sharing your phone number? I'll WhatsApp you the next steps.",
			},
		},
		{
			Key:      "style",
			Type:     TypeStyle,
			Label:    "Style Preference",
			Required: true,
			Prompts: []string{
				"What kind of style or vibe do you want?",
				"Which design direction appeals to you most?",
			},
			Hint: "For example, modern minimalist, warm neutral, or industrial.",
		},
		{
			Key:      "location",
			Type:     TypeLocation,
			Label:    "Location",
			Required: true,
			Prompts: []string{
				"Which area is the property located?",
				"Where is your property? This helps me suggest similar projects nearby.",
			},
			Hint: "For example, Mont Kiara, Bangsar, or Penang.",
		},
		{
			Key:      "scope",
			Type:     TypeText,
			Label:    "Scope",
			Required: false,
			Prompts: []string{
				"Which spaces are in scope?",
			},
			Hint: "For example, living and kitchen.",
		},
		{
			Key:      "budget",
			Type:     TypeCurrency,
			Label:    "Budget",
			Required: false,
			Prompts: []string{
				"What's your budget range for this project?",
			},
		},
	})
}
