// -----------------------------------------------------------------------
// Package messages turns validation outcomes into the conversational
// text the user actually sees: transition messages after a step lands
// and recovery messages after a rejection. Generated wording comes from
// the text service; every path has a deterministic fallback so message
// composition can never fail a request.
// -----------------------------------------------------------------------

package messages

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

// Composer builds transition and recovery messages.
type Composer struct {
	text   interfaces.TextService
	logger arbor.ILogger
}

// NewComposer creates a message composer. The text service may be nil;
// deterministic templates then carry every message.
func NewComposer(text interfaces.TextService, logger arbor.ILogger) *Composer {
	return &Composer{text: text, logger: logger}
}

// Opening produces the message that starts the conversation: a warm
// welcome carrying the first question. Falls back to the question
// itself when no generated wording is available.
func (c *Composer) Opening(ctx context.Context, first models.StepDefinition) string {
	if c.text != nil {
		msg, err := c.text.Compose(ctx, buildOpeningInstruction(first))
		if err == nil {
			return msg
		}
		c.logger.Debug().Err(err).Str("step", first.Name).Msg("Opening composition fell back to the step question")
	}
	return first.Question
}

// Transition acknowledges a completed step and asks the next question.
// A nil next step means the flow just finished and the message closes
// out the conversation instead.
func (c *Composer) Transition(ctx context.Context, completed models.StepDefinition, completedIndex int, next *models.StepDefinition) string {
	if c.text != nil {
		msg, err := c.text.Compose(ctx, buildTransitionInstruction(completed, next))
		if err == nil {
			return msg
		}
		c.logger.Debug().Err(err).Str("step", completed.Name).Msg("Transition composition fell back to template")
	}
	return fallbackTransition(completedIndex, next)
}

// Recovery explains a rejection and re-asks the question. The retry
// count keeps repeated failures from producing identical wording and
// triggers the example/option escalation after the second miss.
func (c *Composer) Recovery(ctx context.Context, def models.StepDefinition, reason models.ReasonCode, retryCount int) string {
	if c.text != nil {
		msg, err := c.text.Compose(ctx, buildRecoveryInstruction(def, reason, retryCount))
		if err == nil {
			return msg
		}
		c.logger.Debug().Err(err).Str("step", def.Name).Str("reason", string(reason)).Msg("Recovery composition fell back to template")
	}
	return fallbackRecovery(def, reason, retryCount)
}

// buildOpeningInstruction renders the generation prompt for the
// conversation opener.
func buildOpeningInstruction(first models.StepDefinition) string {
	var b strings.Builder
	b.WriteString("You are guiding someone through setting up their host profile, one question at a time.\n")
	b.WriteString("Write ONE short, warm message (at most two sentences) that welcomes them and asks the opening question.\n\n")
	fmt.Fprintf(&b, "The opening question: %q\n", first.Question)
	b.WriteString("Keep the meaning of the question intact.\n")
	b.WriteString("\nPlain text only. No lists, no markdown, no emoji.\n")
	return b.String()
}

// buildTransitionInstruction renders the generation prompt for an
// acknowledge-and-ask message.
func buildTransitionInstruction(completed models.StepDefinition, next *models.StepDefinition) string {
	var b strings.Builder

	b.WriteString("You are guiding someone through setting up their host profile, one question at a time.\n")
	b.WriteString("Write ONE short, warm message (at most two sentences).\n\n")
	fmt.Fprintf(&b, "They just answered: %q\n", completed.Question)

	if next == nil {
		b.WriteString("\nThat was the final question. Thank them and tell them their profile is complete.\n")
	} else {
		fmt.Fprintf(&b, "\nAcknowledge briefly, then ask the next question: %q\n", next.Question)
		b.WriteString("Keep the meaning of the next question intact.\n")
	}

	b.WriteString("\nPlain text only. No lists, no markdown, no emoji.\n")
	return b.String()
}

// reasonDescriptions phrase each failure for the generation prompt.
// The wording steers the model away from lecturing about spelling or
// grammar and never exposes the internal code.
var reasonDescriptions = map[models.ReasonCode]string{
	models.ReasonEmpty:            "their answer was empty",
	models.ReasonTooShort:         "their answer was too short for this field",
	models.ReasonTooLong:          "their answer was too long for this field",
	models.ReasonTypeMismatch:     "their answer arrived in the wrong format for this question",
	models.ReasonInvalidFullName:  "we need their complete name, first and last",
	models.ReasonInvalidEmail:     "the email address they gave doesn't look deliverable",
	models.ReasonInvalidURL:       "the link they gave isn't a usable web address",
	models.ReasonEnumInvalid:      "their choices don't match the available options",
	models.ReasonEnumNoMatch:      "we couldn't connect their answer to anything on our list",
	models.ReasonGibberish:        "their answer doesn't read as a real answer",
	models.ReasonIrrelevant:       "their answer doesn't address the question",
	models.ReasonSpam:             "their answer looks like promotional text rather than a profile answer",
	models.ReasonUnrelated:        "their answer is about something else entirely",
	models.ReasonLowEffort:        "their answer doesn't give us anything to work with",
	models.ReasonAIUnavailable:    "we couldn't check their answer right now and they should simply try again",
	models.ReasonOutOfOrder:       "they tried to answer a later question before finishing the current one",
	models.ReasonUnknownStep:      "their answer was for a question that isn't part of this flow",
	models.ReasonMissingProfileID: "we couldn't tell which profile their answer belongs to and they should start from the beginning",
}

// buildRecoveryInstruction renders the generation prompt for a
// rejection message.
func buildRecoveryInstruction(def models.StepDefinition, reason models.ReasonCode, retryCount int) string {
	description, ok := reasonDescriptions[reason]
	if !ok {
		description = "something about their answer didn't work"
	}

	var b strings.Builder
	b.WriteString("You are guiding someone through setting up their host profile, one question at a time.\n")
	b.WriteString("Their last answer couldn't be accepted. Write ONE short, kind message (at most two sentences) that explains the problem and asks again.\n\n")
	fmt.Fprintf(&b, "The question: %q\n", def.Question)
	fmt.Fprintf(&b, "The problem: %s.\n", description)

	if retryCount > 0 {
		fmt.Fprintf(&b, "This is attempt %d on this question, so vary the wording from a typical first nudge.\n", retryCount+1)
	}
	if retryCount > 1 {
		if def.Example != "" {
			fmt.Fprintf(&b, "Include this example of a good answer: %q\n", def.Example)
		} else if len(def.AllowedValues) > 0 {
			fmt.Fprintf(&b, "List the available options: %s\n", strings.Join(def.AllowedValues, ", "))
		}
	}

	b.WriteString("\nNever mention spelling, grammar, formatting rules, or any internal checks.\n")
	b.WriteString("Plain text only. No lists, no markdown, no emoji.\n")
	return b.String()
}
