package agent

import (
	"fmt"
	"strings"
)

// RefusalMarker is the fixed prefix the refinement oracle call uses to
// decline a prompt. A refined prompt beginning with this marker short
// circuits the tool loop entirely.
const RefusalMarker = "REFUSED:"

// fallbackAnswer is returned when the step budget runs out without a
// final_answer decision. Degraded but successful - not an error.
const fallbackAnswer = "I could not reach a confident final answer within the allotted reasoning steps. Please review the gathered evidence below."

// scratchEntry is one thought/action/observation triple in the running
// scratchpad
type scratchEntry struct {
	Thought     string
	Action      string
	Args        string
	Observation string
}

// buildPrompt assembles the oracle context for one decision: persona, tool
// descriptions, the claim, the scratchpad so far and any advisory anti-loop
// warnings.
func buildPrompt(persona, claim, toolList string, scratchpad []scratchEntry, warnings []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s verifying a user-submitted claim.\n\n", persona)
	b.WriteString("Available tools:\n")
	b.WriteString(toolList)
	fmt.Fprintf(&b, "- %s: Use this when you are ready to answer. Arguments: answer (string): your final verdict and reasoning\n\n", "final_answer")

	b.WriteString("Respond with a single JSON object and nothing else:\n")
	b.WriteString(`{"thought": "your reasoning", "tool": "tool_name", "args": {"field": "value"}}` + "\n\n")

	fmt.Fprintf(&b, "Claim to verify: %s\n", claim)

	if len(scratchpad) > 0 {
		b.WriteString("\nPrevious steps:\n")
		for i, e := range scratchpad {
			fmt.Fprintf(&b, "Step %d:\n", i+1)
			if e.Thought != "" {
				fmt.Fprintf(&b, "  Thought: %s\n", e.Thought)
			}
			if e.Action != "" {
				fmt.Fprintf(&b, "  Action: %s(%s)\n", e.Action, e.Args)
			}
			fmt.Fprintf(&b, "  Observation: %s\n", e.Observation)
		}
	}

	for _, w := range warnings {
		fmt.Fprintf(&b, "\nSYSTEM WARNING: %s\n", w)
	}

	b.WriteString("\nNext decision:")
	return b.String()
}

// buildRefinePrompt asks the oracle to rewrite a vague claim into a
// specific, checkable one, or refuse with the fixed marker.
func buildRefinePrompt(claim string) string {
	return fmt.Sprintf(`Rewrite the following claim into a specific, verifiable statement, keeping its meaning. Reply with the rewritten claim only.
If the claim cannot be fact-checked at all (an opinion, a question, or gibberish), reply starting with %q followed by a short reason.

Claim: %s`, RefusalMarker, claim)
}

// Anti-loop advisory messages. Advisory only: they are injected into the
// next context but never block an action.
const (
	warnImmediateRepeat = "Your last two tool calls were identical. Do not repeat the same call again; try a different tool, different arguments, or answer from the evidence you already have."
	warnSearchStall     = "You have searched repeatedly without concluding. Stop searching and reason from the evidence already gathered, then give your final answer."
)
