// Package loudness extracts the analysis filter's JSON summary from raw
// encoder output.
package loudness

import (
	"encoding/json"

	"github.com/forPelevin/hourmix/internal/types"
)

// expectedKeys is the exact schema of the analysis summary. A block is
// accepted only when its key set matches exactly.
var expectedKeys = []string{
	"input_i",
	"input_tp",
	"input_lra",
	"input_thresh",
	"output_i",
	"output_tp",
	"output_lra",
	"output_thresh",
	"normalization_type",
	"target_offset",
}

// Extract scans output for a balanced {...} block holding the loudness
// summary. ok is false when no block with the exact key set parses; callers
// then fall back to the default record.
func Extract(output string) (types.LoudnessRecord, bool) {
	for i := 0; i < len(output); i++ {
		if output[i] != '{' {
			continue
		}
		block, end := balancedBlock(output, i)
		if end < 0 {
			continue
		}
		if rec, ok := parseRecord(block); ok {
			return rec, true
		}
	}
	return types.LoudnessRecord{}, false
}

// balancedBlock returns the substring from start to its matching closing
// brace, or -1 when the braces never balance.
func balancedBlock(s string, start int) (string, int) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], i
			}
		}
	}
	return "", -1
}

func parseRecord(block string) (types.LoudnessRecord, bool) {
	var m map[string]string
	if err := json.Unmarshal([]byte(block), &m); err != nil {
		return types.LoudnessRecord{}, false
	}
	if len(m) != len(expectedKeys) {
		return types.LoudnessRecord{}, false
	}
	for _, k := range expectedKeys {
		if _, ok := m[k]; !ok {
			return types.LoudnessRecord{}, false
		}
	}
	var rec types.LoudnessRecord
	if err := json.Unmarshal([]byte(block), &rec); err != nil {
		return types.LoudnessRecord{}, false
	}
	return rec, true
}
