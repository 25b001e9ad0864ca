package extract

import (
	"encoding/json"
	"strings"

	"vitalis/internal/domain"
	"vitalis/internal/llm"
)

// ChunkResult is the structured output of processing one chunk. It is always
// well-formed: collections are empty rather than nil-meaningful, and a
// missing summary is the empty string.
type ChunkResult struct {
	Sensitivities []domain.SensitivityRecord `json:"sensitivities"`
	Biomarkers    []domain.BiomarkerRecord   `json:"biomarkers"`
	Summary       string                     `json:"summary"`
}

// IsEmpty reports whether the chunk produced no usable data.
func (r ChunkResult) IsEmpty() bool {
	return len(r.Sensitivities) == 0 && len(r.Biomarkers) == 0 && r.Summary == ""
}

// DecodeChunkResult turns raw model output into a ChunkResult. Parse failures
// of any kind degrade to an empty result; they never propagate as errors.
func DecodeChunkResult(raw string) ChunkResult {
	data := llm.ExtractJSON(raw)
	if data == nil {
		return ChunkResult{}
	}
	var res ChunkResult
	if err := json.Unmarshal(data, &res); err != nil {
		return ChunkResult{}
	}
	return sanitize(res)
}

// sanitize drops records the model returned malformed and normalizes the
// enum casing it tends to vary.
func sanitize(res ChunkResult) ChunkResult {
	sens := res.Sensitivities[:0]
	for _, s := range res.Sensitivities {
		s.Food = strings.TrimSpace(s.Food)
		s.Level = domain.SensitivityLevel(strings.ToLower(string(s.Level)))
		if s.Food == "" {
			continue
		}
		switch s.Level {
		case domain.SensitivityHigh, domain.SensitivityMedium, domain.SensitivityLow:
		default:
			continue
		}
		sens = append(sens, s)
	}
	res.Sensitivities = sens

	bios := res.Biomarkers[:0]
	for _, b := range res.Biomarkers {
		b.Name = strings.TrimSpace(b.Name)
		if b.Name == "" {
			continue
		}
		if b.Status != nil {
			status := domain.BiomarkerStatus(strings.ToLower(string(*b.Status)))
			switch status {
			case domain.BiomarkerNormal, domain.BiomarkerHigh, domain.BiomarkerLow:
				b.Status = &status
			default:
				b.Status = nil
			}
		}
		bios = append(bios, b)
	}
	res.Biomarkers = bios

	res.Summary = strings.TrimSpace(res.Summary)
	return res
}
