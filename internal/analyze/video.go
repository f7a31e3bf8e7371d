package analyze

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Video produces a property-based description of a video file. Still-frame
// extraction needs a decoder that is not wired in, so the nested analysis is
// reported as unavailable rather than failing the call.
func Video(path string) Result {
	result := Result{Filename: filepath.Base(path)}

	kind := videoKind(result.Filename)

	info, err := os.Stat(path)
	if err != nil {
		result.Err = err.Error()
		result.Description = fmt.Sprintf("This file is a %s that could not be analyzed.", kind)
		return result
	}

	result.Description = fmt.Sprintf("This file is a %s of %.1f MB.", kind, float64(info.Size())/(1024*1024))
	result.Still = &Result{
		Filename:    result.Filename,
		Description: "",
		Err:         "still-frame extraction requires a video decoder",
	}
	return result
}

func videoKind(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case containsAny(lower, "meeting", "call", "conference"):
		return "meeting recording"
	case containsAny(lower, "tutorial", "training", "demo"):
		return "training video"
	case containsAny(lower, "screen", "capture", "recording"):
		return "screen recording"
	default:
		return "video file"
	}
}
