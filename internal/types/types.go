package types

// Candidate is a source file provisionally eligible for inclusion, annotated
// with its probed duration.
type Candidate struct {
	Path            string
	DurationSeconds float64
}

// LoudnessRecord holds one file's measured loudness statistics exactly as the
// analysis pass prints them. Values stay numeric-as-string so they reach the
// normalization filter verbatim.
type LoudnessRecord struct {
	InputI            string `json:"input_i"`
	InputTP           string `json:"input_tp"`
	InputLRA          string `json:"input_lra"`
	InputThresh       string `json:"input_thresh"`
	OutputI           string `json:"output_i"`
	OutputTP          string `json:"output_tp"`
	OutputLRA         string `json:"output_lra"`
	OutputThresh      string `json:"output_thresh"`
	NormalizationType string `json:"normalization_type"`
	TargetOffset      string `json:"target_offset"`
}

// DefaultLoudness is the fallback record for files with no usable analysis
// result.
func DefaultLoudness() LoudnessRecord {
	return LoudnessRecord{
		InputI:       "-23.0",
		InputLRA:     "7.0",
		InputTP:      "-1.5",
		InputThresh:  "-50.0",
		TargetOffset: "0.0",
	}
}

// ClipJob describes one re-encode: a time-bounded segment of SourcePath
// rendered to OutputPath with fades and loudness normalization applied.
// A nil Loudness means the encoder falls back to DefaultLoudness.
type ClipJob struct {
	SourcePath      string
	StartSeconds    float64
	DurationSeconds float64
	FadeSeconds     float64
	OutputPath      string
	LogPath         string
	Loudness        *LoudnessRecord
}
