package promptbuild

import "strings"

// CleanupOptions toggles the presentation normalizations applied to
// local-model output. Remote backends return already-clean answers and run
// with both off.
type CleanupOptions struct {
	StripUnknownSuffix bool
	RelabelUnhelpful   bool
}

const unhelpfulHeader = "Unhelpful answers:"
const additionalHeader = "Additional information:"

// CleanAnswer normalizes a generated answer for presentation. Local models
// sometimes answer and then tack a disclaimer on the end, or emit an
// "Unhelpful answers:" section that still carries usable information.
func CleanAnswer(answer string, opts CleanupOptions) string {
	out := answer
	if opts.StripUnknownSuffix {
		out = stripUnknownSuffix(out)
	}
	if opts.RelabelUnhelpful {
		out = strings.ReplaceAll(out, unhelpfulHeader, additionalHeader)
	}
	return out
}

// stripUnknownSuffix removes a trailing "I don't know" back to the
// preceding sentence boundary, but only when the model partially answered
// first. An answer that is nothing but the disclaimer is left alone -
// that is the honest response.
func stripUnknownSuffix(answer string) string {
	trimmed := strings.TrimRight(answer, " \t\n")
	lower := strings.ToLower(trimmed)

	for _, suffix := range []string{"i don't know.", "i don't know", "i do not know.", "i do not know"} {
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		head := trimmed[:len(trimmed)-len(suffix)]
		cut := strings.LastIndexAny(head, ".!?")
		if cut < 0 {
			return answer
		}
		return strings.TrimRight(head[:cut+1], " \t\n")
	}
	return answer
}
