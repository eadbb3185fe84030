// Package articulation assembles the system and user prompts sent to the rewriter.
package articulation

import (
	"strings"

	"humanizer/internal/persona"
)

const (
	// RewriteDirective closes every user prompt.
	RewriteDirective = "Rewrite this with the tone and structure described above."
	// PreserveCitations is appended when the persona keeps citations verbatim.
	PreserveCitations = "Preserve all in-text citations exactly."
	// ParaphraseCitations is appended when the persona may rework citations.
	ParaphraseCitations = "Citations may be paraphrased or omitted naturally."
)

// Prompt is the message pair for one rewrite call.
type Prompt struct {
	System string
	User   string
}

// Assemble builds the prompt pair for p and the mangled passage. The system message
// is the persona instruction; the user message repeats it, then the passage, then
// the closing directive with the citation clause.
func Assemble(p persona.Persona, mangled string) Prompt {
	var b strings.Builder
	b.Grow(len(p.Instruction) + len(mangled) + 128)
	b.WriteString(p.Instruction)
	b.WriteString("\n\n")
	b.WriteString(mangled)
	b.WriteString("\n\n")
	b.WriteString(RewriteDirective)
	b.WriteByte(' ')
	b.WriteString(CitationClause(p.PreserveCitations))

	return Prompt{System: p.Instruction, User: b.String()}
}

// CitationClause returns the closing sentence for the citation flag.
func CitationClause(preserve bool) string {
	if preserve {
		return PreserveCitations
	}
	return ParaphraseCitations
}

// Len is the combined prompt size in bytes.
func (p Prompt) Len() int {
	return len(p.System) + len(p.User)
}
