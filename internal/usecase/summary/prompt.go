package summary

import (
	"fmt"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// SystemInstruction is sent as the system message with every request
const SystemInstruction = "You are a meeting summarizer. You answer with strict JSON only: no explanations, no comments, no Markdown."

var extractionRules = fmt.Sprintf(`Given the meeting text below, extract the following clearly and concisely:

1. "summary": a 3-5 sentence summary of what was discussed.
2. "decisions": key decisions the participants made.
3. "action_items": tasks with an owner, each as {"assignee", "task", "due_date"}.
4. "important_dates": upcoming dates, deadlines or milestones that were mentioned.
5. "other_notes": anything else noteworthy not covered above.

Return ONLY one JSON object with exactly these keys:

{
  "summary": "string",
  "decisions": ["string"],
  "action_items": [
    {"assignee": "string", "task": "string", "due_date": "string"}
  ],
  "important_dates": ["string"],
  "other_notes": ["string"]
}

Rules:
- Never invent names, dates or numbers that do not appear in the text.
- Attribute an action item to a person only when that person explicitly commits to it ("I will ...") or is explicitly asked to do it and accepts. Being mentioned is not an assignment.
- When no one owns a task use "assignee": %q. When no deadline is stated use "due_date": %q.
- Use empty lists for categories with nothing to report.
- Do not prefix the object with any text and do not wrap it in a code fence.`, entities.Unassigned, entities.NoDueDate)

// ExtractionPrompt builds the structured extraction request for a transcript
// or for the merged chunk summaries.
func ExtractionPrompt(text string) string {
	return extractionRules + "\n\nMeeting text:\n\n" + text
}

// CondensePrompt asks for a short summary of one transcript fragment
func CondensePrompt(chunk string) string {
	return `Summarize this fragment of a meeting transcript in 2-3 sentences. Keep names, dates and commitments exactly as stated. Answer as {"summary": "..."}.` +
		"\n\nFragment:\n\n" + chunk
}
