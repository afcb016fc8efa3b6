package messages

import (
	"fmt"
	"strings"

	"github.com/ternarybob/rogo/internal/models"
)

// recoveryHints maps each failure reason to the deterministic phrasings
// used when the composition service is unavailable. Every phrasing
// addresses the problem without mentioning spelling, grammar or any
// internal mechanics, and never repeats the raw code.
var recoveryHints = map[models.ReasonCode][]string{
	models.ReasonEmpty: {
		"Looks like that came through empty. %s",
		"We didn't catch an answer there. %s",
	},
	models.ReasonTooShort: {
		"Could you add a little more detail? %s",
		"That was a bit brief for this one. %s",
	},
	models.ReasonTooLong: {
		"That's a bit long for this field. Could you trim it down? %s",
		"Could you shorten that a little? %s",
	},
	models.ReasonTypeMismatch: {
		"That answer doesn't fit this question's format. %s",
		"Hmm, that came through in an unexpected format. %s",
	},
	models.ReasonInvalidFullName: {
		"We'll need your full name, first and last. %s",
		"Could you share your complete name? First and last, please. %s",
	},
	models.ReasonInvalidEmail: {
		"That doesn't look like an email address we can reach you at. %s",
		"Could you double-check that email address? %s",
	},
	models.ReasonInvalidURL: {
		"That link doesn't look right. A full web address starting with https:// works best. %s",
		"We couldn't recognize that as a web address. %s",
	},
	models.ReasonEnumInvalid: {
		"Those don't match the available options. %s",
		"We couldn't match that to the options for this step. %s",
	},
	models.ReasonEnumNoMatch: {
		"We couldn't connect that to anything on our list. %s",
		"Nothing on our list quite matches that. %s",
	},
	models.ReasonGibberish: {
		"That doesn't quite read as an answer. %s",
		"We couldn't make sense of that one. %s",
	},
	models.ReasonIrrelevant: {
		"That seems to answer a different question. %s",
		"That doesn't seem related to what we asked. %s",
	},
	models.ReasonSpam: {
		"That doesn't look like a profile answer. %s",
		"Let's keep this about your profile. %s",
	},
	models.ReasonUnrelated: {
		"That seems off-topic for this question. %s",
		"That doesn't seem to fit this question. %s",
	},
	models.ReasonLowEffort: {
		"Give us a real answer here, it's worth it. %s",
		"A genuine answer helps guests find you. %s",
	},
	models.ReasonAIUnavailable: {
		"We couldn't check that answer just now. Mind trying again in a moment?",
		"Something on our side hiccuped while checking that. Please try once more.",
	},
	models.ReasonOutOfOrder: {
		"Let's finish the current question first. %s",
		"One step at a time. %s",
	},
	models.ReasonUnknownStep: {
		"That question isn't part of setting up your profile. %s",
		"We don't have a question like that in this flow. %s",
	},
	models.ReasonMissingProfileID: {
		"We couldn't tell which profile this answer belongs to. Please start from the beginning. %s",
		"We lost track of your profile there. Let's pick up from the start. %s",
	},
}

// genericHints covers reasons with no user-appropriate explanation.
var genericHints = []string{
	"Something went wrong with that answer. %s",
	"That didn't quite work. %s",
}

// transitionTemplates are the deterministic acknowledge-and-ask
// fallbacks. %s slots are the next question.
var transitionTemplates = []string{
	"Great, got it. %s",
	"Perfect, that's saved. %s",
	"Thanks! Next up: %s",
}

// completionTemplates close out the flow when the last step lands.
var completionTemplates = []string{
	"That's everything, your profile is complete. Thanks for taking the time!",
	"All done! Your profile is ready to go.",
}

// fallbackRecovery renders the deterministic recovery message: a
// rotated phrasing for the reason, the retry prompt, and an example or
// option list once the user has missed more than once.
func fallbackRecovery(def models.StepDefinition, reason models.ReasonCode, retryCount int) string {
	hints, ok := recoveryHints[reason]
	if !ok {
		hints = genericHints
	}
	hint := hints[retryCount%len(hints)]

	prompt := fmt.Sprintf("Let's try again: %s", def.Question)
	var msg string
	if strings.Contains(hint, "%s") {
		msg = fmt.Sprintf(hint, prompt)
	} else {
		msg = hint
	}

	if retryCount > 1 {
		if escalation := escalationHint(def); escalation != "" {
			msg = msg + " " + escalation
		}
	}
	return msg
}

// escalationHint shows the step's example or option list after
// repeated failures.
func escalationHint(def models.StepDefinition) string {
	if def.Example != "" {
		return fmt.Sprintf("For example: %q.", def.Example)
	}
	if len(def.AllowedValues) > 0 {
		return fmt.Sprintf("You can choose from: %s.", strings.Join(def.AllowedValues, ", "))
	}
	return ""
}

// fallbackTransition renders the deterministic acknowledge-and-ask
// message, rotated on the position of the completed step.
func fallbackTransition(completedIndex int, next *models.StepDefinition) string {
	if next == nil {
		return completionTemplates[completedIndex%len(completionTemplates)]
	}
	return fmt.Sprintf(transitionTemplates[completedIndex%len(transitionTemplates)], next.Question)
}
