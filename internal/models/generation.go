package models

// HarmCategory names a provider-side content safety classification.
type HarmCategory string

const (
	HarmHarassment       HarmCategory = "harassment"
	HarmHateSpeech       HarmCategory = "hate_speech"
	HarmSexuallyExplicit HarmCategory = "sexually_explicit"
	HarmDangerousContent HarmCategory = "dangerous_content"
)

// BlockThreshold is the sensitivity at which matching output is suppressed.
type BlockThreshold string

const (
	BlockLowAndAbove    BlockThreshold = "low_and_above"
	BlockMediumAndAbove BlockThreshold = "medium_and_above"
	BlockOnlyHigh       BlockThreshold = "only_high"
	BlockNone           BlockThreshold = "none"
)

type GenerationConfig struct {
	Temperature     float32
	MaxOutputTokens int32
	TopP            float32
}

// ModelRequest is built fresh for every provider call.
type ModelRequest struct {
	Model      string
	Prompt     string
	Generation GenerationConfig
	Safety     map[HarmCategory]BlockThreshold
}

// ModelResponse carries the only part of the provider envelope we use.
type ModelResponse struct {
	Text string
}

// DefaultSafety blocks medium-and-above for the four standard harm categories.
func DefaultSafety() map[HarmCategory]BlockThreshold {
	return map[HarmCategory]BlockThreshold{
		HarmHarassment:       BlockMediumAndAbove,
		HarmHateSpeech:       BlockMediumAndAbove,
		HarmSexuallyExplicit: BlockMediumAndAbove,
		HarmDangerousContent: BlockMediumAndAbove,
	}
}
