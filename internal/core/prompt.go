// ABOUTME: Prompt and system-instruction builders for translation and chat
// ABOUTME: Keeps token usage bounded via glossary caps and snippet truncation
package core

import (
	"fmt"
	"strings"

	"github.com/harper/translate-standalone/internal/models"
)

const (
	// contextTailLength is how many runes of the previous chunk's source
	// text are carried into the next chunk's prompt.
	contextTailLength = 300
	// glossarySummaryCap bounds how many entries the assistant system
	// instruction embeds.
	glossarySummaryCap = 500
	// editorSnippetLength is the head/tail sample size for the truncated
	// editor context.
	editorSnippetLength = 1500
)

// translationSystemInstruction is the single-pass (and second-pass) style
// instruction.
func translationSystemInstruction(targetLanguage, instruction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional novel translator. Translate the user's text into %s.\n", targetLanguage)
	b.WriteString("Preserve paragraph structure, names, and narrative tone. ")
	b.WriteString("Text between chunks is continuous: keep tense, register, and pronouns consistent with the provided context. ")
	b.WriteString("Output only the translation, no commentary.")
	if instruction != "" {
		b.WriteString("\nProject instructions: ")
		b.WriteString(instruction)
	}
	return b.String()
}

// draftSystemInstruction drives the hidden first pass of two-pass mode.
func draftSystemInstruction(targetLanguage string) string {
	return fmt.Sprintf("You are a translation engine. Translate the user's text into %s as literally and accurately as possible. Do not polish style. Output only the translation.", targetLanguage)
}

// polishPrompt wraps a draft for the streamed second pass.
func polishPrompt(source, draft string) string {
	var b strings.Builder
	b.WriteString("Rewrite the draft translation below into polished, natural prose. Keep every fact and name intact.\n\n")
	b.WriteString("Original text:\n")
	b.WriteString(source)
	b.WriteString("\n\nDraft translation:\n")
	b.WriteString(draft)
	return b.String()
}

// buildChunkPrompt assembles glossary block + previous-source tail + chunk.
func buildChunkPrompt(glossaryBlock, previousTail, chunk string) string {
	var b strings.Builder
	if glossaryBlock != "" {
		b.WriteString(glossaryBlock)
		b.WriteString("\n")
	}
	if previousTail != "" {
		b.WriteString("Preceding source text (context only, do not translate):\n")
		b.WriteString(previousTail)
		b.WriteString("\n\n")
	}
	b.WriteString("Translate:\n")
	b.WriteString(chunk)
	return b.String()
}

// sourceTail returns the last contextTailLength runes of text.
func sourceTail(text string) string {
	runes := []rune(text)
	if len(runes) <= contextTailLength {
		return text
	}
	return string(runes[len(runes)-contextTailLength:])
}

// assistantSystemInstruction embeds a capped glossary summary and an editor
// context snippet. When fullContext is true the complete editor text is
// embedded instead of the head+tail sample.
func assistantSystemInstruction(glossary []models.GlossaryEntry, editorText string, fullContext bool) string {
	var b strings.Builder
	b.WriteString("You are a translation assistant for a novel-translation project. ")
	b.WriteString("You can manage the glossary, search past translations, and read the full editor text via the provided tools. ")
	b.WriteString("Never apply glossary changes yourself; propose them through the manage_glossary tool.\n")

	if len(glossary) > 0 {
		b.WriteString("\nCurrent glossary:\n")
		shown := glossary
		if len(shown) > glossarySummaryCap {
			shown = shown[:glossarySummaryCap]
		}
		for _, e := range shown {
			b.WriteString(e.Original)
			b.WriteString("=")
			b.WriteString(e.Translated)
			b.WriteString("\n")
		}
		if remainder := len(glossary) - len(shown); remainder > 0 {
			fmt.Fprintf(&b, "(+%d more entries)\n", remainder)
		}
	}

	if editorText != "" {
		if fullContext {
			b.WriteString("\nComplete editor content:\n")
			b.WriteString(editorText)
			b.WriteString("\n")
		} else {
			b.WriteString("\nEditor content sample:\n")
			b.WriteString(editorSnippet(editorText))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// editorSnippet samples the head and tail of long editor text.
func editorSnippet(text string) string {
	runes := []rune(text)
	if len(runes) <= 2*editorSnippetLength {
		return text
	}
	head := string(runes[:editorSnippetLength])
	tail := string(runes[len(runes)-editorSnippetLength:])
	return head + "\n[...]\n" + tail
}
