package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/leadline-ai/leadline/internal/fields"
	"github.com/leadline-ai/leadline/internal/intent"
	"github.com/leadline-ai/leadline/internal/merchant"
	"github.com/leadline-ai/leadline/internal/session"
)

const reAskPrefix = "Just to confirm, "

// appointmentMessages rotate per session so repeated completions in a demo
// don't read copy-pasted.
var appointmentMessages = []string{
	"Perfect, I have everything I need! %s will be in touch shortly to confirm your consultation.",
	"Great, that's all the details sorted. %s will reach out soon to lock in a time.",
	"All set! Expect a message from %s shortly to confirm your consultation slot.",
}

var genericPricingReply = "Pricing depends on the scope and finishes, so it varies quite a bit per project. Once I have a few details I can get you an accurate quote."

// composeReply assembles the outgoing message: an optional greeting, acks
// for newly captured values, answers for the message's intents, then either
// the completion message or the next scheduled question.
func (e *Engine) composeReply(
	ctx context.Context,
	cfg *merchant.Config,
	reg *fields.Registry,
	state *session.State,
	message string,
	classified intent.Result,
	changed []string,
	outcome completionOutcome,
) (string, string) {
	var parts []string

	if classified.Has(intent.Greeting) && state.TurnIndex == 1 {
		parts = append(parts, greetingLine(cfg))
	}

	changedSet := make(map[string]bool, len(changed))
	for _, key := range changed {
		changedSet[key] = true
	}

	if changedSet["style"] {
		if line := themeLinkLine(cfg, state); line != "" {
			parts = append(parts, line)
		}
	}

	if classified.Has(intent.Portfolio) {
		parts = append(parts, e.portfolioReply(ctx, cfg, state))
	}
	if classified.Has(intent.Pricing) {
		parts = append(parts, e.pricingReply(ctx, cfg, state))
	}
	if !classified.Has(intent.Portfolio) && !classified.Has(intent.Pricing) {
		// Off-topic questions still deserve a real answer before the engine
		// returns to collecting fields.
		if line := e.contentAnswer(ctx, state, message); line != "" {
			parts = append(parts, line)
		}
	}
	if classified.Has(intent.Consultation) && !state.Completed {
		parts = append(parts, "Happy to arrange a consultation! Let me grab a couple of details first.")
	}

	if outcome.justCompleted {
		parts = append(parts, completionLine(cfg, state, outcome))
		return joinParts(parts), ""
	}

	spec, ok := e.scheduler.Next(state, reg)
	if !ok {
		if len(parts) == 0 {
			parts = append(parts, "Is there anything else I can help you with?")
		}
		return joinParts(parts), ""
	}

	parts = append(parts, questionLine(spec, state, changedSet))
	if spec.Key == "name" && combinedNamePhoneAsk(state, reg) {
		parts[len(parts)-1] = "May I have your name and the best phone number to reach you?"
	}
	return joinParts(parts), spec.Key
}

// combinedNamePhoneAsk reports whether the very first contact ask should
// bundle name and phone into one question. Applies only while neither has
// been asked or answered.
func combinedNamePhoneAsk(state *session.State, reg *fields.Registry) bool {
	if _, ok := reg.Get("phone"); !ok {
		return false
	}
	if _, ok := state.Get("name"); ok {
		return false
	}
	if _, ok := state.Get("phone"); ok {
		return false
	}
	return state.Meta("name").AskCount == 0 && state.Meta("phone").AskCount == 0
}

func (e *Engine) portfolioReply(ctx context.Context, cfg *merchant.Config, state *session.State) string {
	var b strings.Builder
	b.WriteString("Of course! Here's some of our recent work")

	query := portfolioQuery(state)
	if e.retriever != nil {
		passages, err := e.retriever.Retrieve(ctx, state.MerchantID, query, e.retrievalTopK)
		if err != nil {
			e.metrics.ObserveCollaboratorError("retrieval")
			e.logger.Warn("content retrieval failed", "error", err, "merchant_id", state.MerchantID)
		} else if len(passages) > 0 {
			b.WriteString(":")
			for _, p := range passages {
				b.WriteString("\n- ")
				b.WriteString(p.Text)
				if p.URL != "" {
					b.WriteString(" ")
					b.WriteString(p.URL)
				}
			}
			return b.String()
		}
	}

	if cfg != nil && len(cfg.PortfolioExamples) > 0 {
		b.WriteString(":")
		for i, example := range cfg.PortfolioExamples {
			if i == 3 {
				break
			}
			b.WriteString("\n- ")
			b.WriteString(example)
		}
		return b.String()
	}
	if cfg != nil && cfg.PortfolioURL != "" {
		return fmt.Sprintf("Of course! You can browse our portfolio here: %s", cfg.PortfolioURL)
	}
	return "Of course! I'll share some of our recent projects once I know a bit more about what you're looking for."
}

func (e *Engine) pricingReply(ctx context.Context, cfg *merchant.Config, state *session.State) string {
	if e.retriever != nil {
		passages, err := e.retriever.Retrieve(ctx, state.MerchantID, "pricing packages rates", e.retrievalTopK)
		if err != nil {
			e.metrics.ObserveCollaboratorError("retrieval")
			e.logger.Warn("content retrieval failed", "error", err, "merchant_id", state.MerchantID)
		} else if len(passages) > 0 {
			return passages[0].Text
		}
	}
	return genericPricingReply
}

// contentAnswer grounds question-shaped messages in retrieved merchant
// content. Portfolio and pricing have their own reply paths; this covers
// everything else ("do you also handle carpentry?").
func (e *Engine) contentAnswer(ctx context.Context, state *session.State, message string) string {
	if e.retriever == nil || !isContentQuestion(message) {
		return ""
	}
	passages, err := e.retriever.Retrieve(ctx, state.MerchantID, message, e.retrievalTopK)
	if err != nil {
		e.metrics.ObserveCollaboratorError("retrieval")
		e.logger.Warn("content retrieval failed", "error", err, "merchant_id", state.MerchantID)
		return ""
	}
	if len(passages) == 0 {
		return ""
	}
	return passages[0].Text
}

var questionLeadRE = regexp.MustCompile(`(?i)^\s*(?:do|does|did|can|could|would|will|are|is|what|which|how|where|when|who|why)\b`)

func isContentQuestion(message string) bool {
	return strings.Contains(message, "?") || questionLeadRE.MatchString(message)
}

// portfolioQuery biases retrieval toward what we already know about the
// customer's project.
func portfolioQuery(state *session.State) string {
	parts := []string{"portfolio projects"}
	if v, ok := state.Get("style"); ok {
		parts = append(parts, v.Value)
	}
	if v, ok := state.Get("location"); ok {
		parts = append(parts, v.Value)
	}
	return strings.Join(parts, " ")
}

func greetingLine(cfg *merchant.Config) string {
	name := merchantDisplayName(cfg)
	if name == "" {
		return "Hi! Thanks for reaching out."
	}
	if cfg.Name != "" && cfg.Company != "" {
		return fmt.Sprintf("Hi! I'm %s from %s.", cfg.Name, cfg.Company)
	}
	return fmt.Sprintf("Hi! Thanks for reaching out to %s.", name)
}

// themeLinkLine surfaces a matching example project right after the customer
// names a style the merchant has content for.
func themeLinkLine(cfg *merchant.Config, state *session.State) string {
	if cfg == nil || len(cfg.ThemeLinks) == 0 {
		return ""
	}
	style, ok := state.Get("style")
	if !ok {
		return ""
	}
	url, ok := cfg.ThemeLinks[strings.ToLower(style.Value)]
	if !ok {
		return ""
	}
	return fmt.Sprintf("Love that direction — here are some %s projects we've done: %s", style.Value, url)
}

func completionLine(cfg *merchant.Config, state *session.State, outcome completionOutcome) string {
	if outcome.booked {
		msg := appointmentMessages[state.ReplyCursor%len(appointmentMessages)]
		state.ReplyCursor++
		name := merchantDisplayName(cfg)
		if name == "" {
			name = "Our team"
		}
		return fmt.Sprintf(msg, name)
	}
	if outcome.handoffMessage != "" {
		return outcome.handoffMessage
	}
	return "Perfect, I have everything I need! We'll be in touch shortly."
}

func closedReply(cfg *merchant.Config) string {
	name := merchantDisplayName(cfg)
	if name == "" {
		name = "our team"
	}
	return fmt.Sprintf("Thanks again! %s has your details and will follow up shortly. If anything changes, just drop a message here.", name)
}

// questionLine renders the scheduled question with its ask-count prompt
// variant, a confirm prefix on re-asks, a thank-you when the customer just
// introduced themselves, and the field's example hint on the first ask.
func questionLine(spec fields.Spec, state *session.State, changedSet map[string]bool) string {
	meta := state.Meta(spec.Key)
	question := spec.Prompt(meta.AskCount)

	var b strings.Builder
	if spec.Key == "phone" && changedSet["name"] {
		if name, ok := state.Get("name"); ok {
			b.WriteString(fmt.Sprintf("Thanks, %s! ", firstName(name.Value)))
		}
	}
	if meta.AskCount > 0 {
		b.WriteString(reAskPrefix)
		b.WriteString(lowerFirst(question))
	} else {
		b.WriteString(question)
	}
	if meta.AskCount == 0 && spec.Hint != "" {
		b.WriteString(" ")
		b.WriteString(spec.Hint)
	}
	return b.String()
}

func firstName(full string) string {
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i]
	}
	return full
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func joinParts(parts []string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
