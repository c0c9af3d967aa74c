// Package merchant provides per-tenant configuration for the dialogue
// engine: which fields to collect, in what order, and with what wording.
package merchant

import (
	"strings"

	"github.com/leadline-ai/leadline/internal/fields"
)

// FieldOverride customizes or adds one collectible field for a merchant.
type FieldOverride struct {
	Key       string      `json:"key"`
	Type      fields.Type `json:"type,omitempty"`
	Label     string      `json:"label,omitempty"`
	Question  string      `json:"question,omitempty"`
	Questions []string    `json:"questions,omitempty"`
	Required  *bool       `json:"required,omitempty"`
	Choices   []string    `json:"choices,omitempty"`
	Threshold float64     `json:"threshold,omitempty"`
}

// Config holds merchant-specific settings. Read-only to the engine; resolved
// once at session start and never observed mid-conversation.
type Config struct {
	MerchantID   string          `json:"merchant_id"`
	Name         string          `json:"name"`
	Company      string          `json:"company,omitempty"`
	Tone         string          `json:"tone,omitempty"` // "warm", "professional", "clinical"
	PortfolioURL string          `json:"portfolio_url,omitempty"`
	Template     string          `json:"template,omitempty"`
	Fields       []FieldOverride `json:"fields,omitempty"`
	// ThemeLinks maps canonical style themes to example project URLs.
	ThemeLinks map[string]string `json:"theme_links,omitempty"`
	// PortfolioExamples are shown after a portfolio request, at most three.
	PortfolioExamples []string `json:"portfolio_examples,omitempty"`
	// NotifyEmails receive a message when a lead completes.
	NotifyEmails []string `json:"notify_emails,omitempty"`
}

// ResolveRegistry applies the merchant's template and field overrides on top
// of the default registry. A config with no usable field list yields the
// default registry unchanged, so a malformed config never fails a turn.
func (c *Config) ResolveRegistry() *fields.Registry {
	base := fields.DefaultRegistry()
	if c == nil {
		return base
	}
	if tpl, ok := Templates[strings.ToLower(strings.TrimSpace(c.Template))]; ok {
		base = fields.NewRegistry(tpl)
	}
	if len(c.Fields) == 0 {
		return base
	}

	specs := base.All()
	index := make(map[string]int, len(specs))
	for i, s := range specs {
		index[s.Key] = i
	}

	for _, ov := range c.Fields {
		key := strings.TrimSpace(ov.Key)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			specs[i] = applyOverride(specs[i], ov)
			continue
		}
		spec, ok := specFromOverride(key, ov)
		if !ok {
			continue
		}
		index[key] = len(specs)
		specs = append(specs, spec)
	}
	return fields.NewRegistry(specs)
}

func applyOverride(spec fields.Spec, ov FieldOverride) fields.Spec {
	if ov.Type != "" {
		spec.Type = ov.Type
	}
	if ov.Label != "" {
		spec.Label = ov.Label
	}
	if prompts := ov.prompts(); len(prompts) > 0 {
		spec.Prompts = prompts
	}
	if ov.Required != nil {
		spec.Required = *ov.Required
	}
	if len(ov.Choices) > 0 {
		spec.Choices = ov.Choices
	}
	if ov.Threshold > 0 {
		spec.Threshold = ov.Threshold
	}
	return spec
}

func specFromOverride(key string, ov FieldOverride) (fields.Spec, bool) {
	prompts := ov.prompts()
	if ov.Type == "" || len(prompts) == 0 {
		// A new field needs at least a type and a question to be askable.
		return fields.Spec{}, false
	}
	required := true
	if ov.Required != nil {
		required = *ov.Required
	}
	label := ov.Label
	if label == "" {
		label = labelFromKey(key)
	}
	return fields.Spec{
		Key:       key,
		Type:      ov.Type,
		Label:     label,
		Required:  required,
		Prompts:   prompts,
		Choices:   ov.Choices,
		Threshold: ov.Threshold,
	}, true
}

func labelFromKey(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (ov FieldOverride) prompts() []string {
	if len(ov.Questions) > 0 {
		return ov.Questions
	}
	if strings.TrimSpace(ov.Question) != "" {
		return []string{ov.Question}
	}
	return nil
}
