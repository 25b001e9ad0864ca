package extract

import (
	"fmt"
	"strings"

	"vitalis/internal/domain"
)

// BuildLabExtractionPrompt returns the extraction prompt for one chunk of a
// lab report. chunkText holds the page text for text chunks; for image chunks
// it is empty and the instructions reference the attached image. The summary
// key is requested only while the accumulator has not captured one yet.
func BuildLabExtractionPrompt(reportType, chunkText string, includeSummary bool) string {
	source := "the attached image"
	if chunkText != "" {
		source = "the document text below"
	}

	summaryLine := `  "summary": null,`
	if includeSummary {
		summaryLine = `  "summary": "",  // one or two sentences describing the report's overall findings`
	}

	prompt := fmt.Sprintf(`You are a clinical document extraction assistant. Analyze %s from a %s report and extract every food sensitivity finding and every biomarker measurement.

IMPORTANT INSTRUCTIONS:
- Extract EVERY finding. Do not skip, summarize, or omit rows.
- Page markers like "--- Page N ---" identify where content came from; you may reference them in your reasoning but never emit them as data.
- Sensitivity levels must be exactly one of: "high", "medium", "low".
- Biomarker status must be one of: "normal", "high", "low", or null when the report gives no reference range.
- Use numbers for values, never strings.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object:
{
%s
  "sensitivities": [
    {"food": "", "level": "", "category": null}
  ],
  "biomarkers": [
    {"name": "", "value": 0, "unit": "", "status": null}
  ]
}

If the content holds no extractable findings, return empty arrays.`, source, reportType, summaryLine)

	if chunkText != "" {
		prompt += "\n\nDOCUMENT TEXT:\n" + chunkText
	}
	return prompt
}

// BuildMealInsightPrompt returns the prompt for single-shot meal photo
// analysis. known lists the user's stored sensitivities so the model can flag
// matching ingredients.
func BuildMealInsightPrompt(known []domain.SensitivityRecord) string {
	var sb strings.Builder
	sb.WriteString(`You are a nutrition analysis assistant. Identify the foods in the attached meal photo and flag any that match the user's known sensitivities or are common reactivity triggers.`)

	if len(known) > 0 {
		sb.WriteString("\n\nKNOWN SENSITIVITIES:\n")
		for _, rec := range known {
			fmt.Fprintf(&sb, "- %s (%s)\n", rec.Food, rec.Level)
		}
	}

	sb.WriteString(`
Return ONLY valid JSON with no markdown formatting, no code fences, no explanation:
{
  "summary": "",  // one or two sentences describing the meal
  "sensitivities": [
    {"food": "", "level": "", "category": null}
  ]
}

Sensitivity levels must be exactly one of: "high", "medium", "low". If nothing in the meal is a likely trigger, return an empty array.`)
	return sb.String()
}
