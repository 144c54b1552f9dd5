package models

// Result sources reported on a NormalizedVideo.
const (
	SourceProvider = "provider"
	SourceFallback = "fallback"
)

// StatusGenerated is the only status a NormalizedVideo carries today.
const StatusGenerated = "generated-successfully"

// GenerationRequest is a prompt that has passed validation.
type GenerationRequest struct {
	Prompt string
}

// ProviderConfig names one upstream model variant to attempt.
type ProviderConfig struct {
	Name       string
	Identifier string
	Parameters map[string]any
	RandomSeed bool
}

// NormalizedVideo is the canonical result of a generation request, whichever
// path produced it.
type NormalizedVideo struct {
	Success     bool
	VideoURL    string
	Prompt      string
	Duration    string
	Message     string
	Source      string
	Model       string
	Status      string
	Description string
}

// FallbackVideo is a known-good sample substituted when no provider succeeds.
type FallbackVideo struct {
	URL         string
	Description string
}
