// Package persona holds the rewrite personas and the anti-repeat rotation that
// picks one per request.
package persona

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Persona is one rewrite style: a label, an instruction for the model, and whether
// in-text citations must survive verbatim.
type Persona struct {
	Label             string `yaml:"label" validate:"required,max=64"`
	PreserveCitations bool   `yaml:"preserve_citations"`
	Instruction       string `yaml:"instruction" validate:"required"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks that the persona carries a label and a non-blank instruction.
func (p Persona) Validate() error {
	if err := validatorInstance().Struct(p); err != nil {
		return fmt.Errorf("persona %q: %w", p.Label, err)
	}
	if strings.TrimSpace(p.Instruction) == "" {
		return fmt.Errorf("persona %q: instruction is blank", p.Label)
	}
	return nil
}

// Builtin returns the default persona table. Each call returns a fresh slice.
func Builtin() []Persona {
	return []Persona{
		{
			Label:             "Precision Student",
			PreserveCitations: true,
			Instruction: "Rewrite the following academic content like a real student would: " +
				"Maintain clarity and academic tone, but alternate between full, structured sentences and short, blunt ones. " +
				"Use 1-2 choppy lines per paragraph to emphasize key ideas. " +
				"Add mild imperfection: echo phrases, sentence fragments, and plain transitions like 'Still' or 'This matters.' " +
				"Do not over-smooth. Let it feel like real writing. " +
				"Do not add new facts. Keep the formatting.",
		},
		{
			Label:             "Late-Night Study Session",
			PreserveCitations: true,
			Instruction: "Rewrite the following content the way a tired but capable student writes at 2am: " +
				"mostly correct, a little uneven, with a few run-on sentences followed by very short ones. " +
				"Repeat a key idea once in slightly different words. Allow a plain aside or two. " +
				"Do not add new facts and do not drop any claims.",
		},
		{
			Label:             "Blunt Peer Reviewer",
			PreserveCitations: true,
			Instruction: "Rewrite the following content in the voice of a direct peer reviewer summarising a paper: " +
				"short declarative sentences, occasional one-word verdicts, no flourishes. " +
				"Point out what matters and move on. Keep every claim and number. Do not add new facts.",
		},
		{
			Label:             "Plain Explainer",
			PreserveCitations: true,
			Instruction: "Rewrite the following content so a first-year student could follow it: " +
				"plain words, concrete phrasing, some sentences that restate the point more simply. " +
				"Vary sentence length on purpose. Avoid polished transitions. Do not add new facts.",
		},
		{
			Label:             "Lab Notebook",
			PreserveCitations: true,
			Instruction: "Rewrite the following content like notes written up from a lab notebook: " +
				"matter-of-fact, slightly terse, some fragments, a few sentences that start with the observation itself. " +
				"Keep the order of ideas. Keep every figure and claim. Do not add new facts.",
		},
		{
			Label:             "Casual Blogger",
			PreserveCitations: false,
			Instruction: "Rewrite the following content as an informed blogger explaining it to readers: " +
				"conversational but accurate, uneven rhythm, an occasional short reaction line. " +
				"Do not invent facts or change any result.",
		},
	}
}
