// Package analyze derives natural-language descriptions from non-text
// artifacts. The analyzers are deliberately lightweight: they read container
// headers and pixel data rather than running ML models, and they always
// return a best-effort partial result with the failure captured in Err.
package analyze

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Result is the outcome of analyzing one artifact. Text carries OCR output
// for images, Transcription carries speech for audio/video, and Still holds
// the nested still-frame analysis for videos.
type Result struct {
	Filename      string  `json:"filename"`
	Description   string  `json:"description"`
	Text          string  `json:"text,omitempty"`
	Transcription string  `json:"transcription,omitempty"`
	Still         *Result `json:"still,omitempty"`
	Err           string  `json:"error,omitempty"`
}

type namedColor struct {
	name    string
	r, g, b int
}

var namedColors = []namedColor{
	{"black", 0, 0, 0},
	{"white", 255, 255, 255},
	{"red", 255, 0, 0},
	{"green", 0, 255, 0},
	{"blue", 0, 0, 255},
	{"yellow", 255, 255, 0},
	{"magenta", 255, 0, 255},
	{"cyan", 0, 255, 255},
	{"gray", 128, 128, 128},
}

// Image decodes an image file and produces a property-based description:
// pixel dimensions, orientation, dominant color and a kind guessed from the
// filename. OCR is not wired in, so Text stays empty.
func Image(path string) Result {
	result := Result{Filename: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		result.Err = err.Error()
		result.Description = "Image could not be analyzed."
		return result
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		result.Err = fmt.Sprintf("failed to decode image: %v", err)
		result.Description = "Image could not be analyzed."
		return result
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	description := fmt.Sprintf("This image is a %s of %dx%d pixels. ",
		imageKind(result.Filename), width, height)

	aspect := float64(width) / float64(height)
	switch {
	case aspect > 1.2:
		description += "The image is in landscape orientation. "
	case aspect < 0.8:
		description += "The image is in portrait orientation. "
	default:
		description += "The image is approximately square. "
	}

	description += fmt.Sprintf("The dominant color appears to be %s. ", dominantColor(img))

	result.Description = description
	return result
}

// imageKind guesses what the image shows from filename keywords.
func imageKind(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case containsAny(lower, "document", "doc", "pdf", "text", "page"):
		return "document scan"
	case containsAny(lower, "photo", "img", "picture", "pic"):
		return "photo"
	case containsAny(lower, "diagram", "chart", "graph"):
		return "diagram"
	case containsAny(lower, "logo", "icon", "symbol"):
		return "logo"
	case containsAny(lower, "screenshot", "screen", "capture"):
		return "screenshot"
	default:
		return "image"
	}
}

// dominantColor samples the image on a coarse grid and names the most
// frequent bucket by nearest match against a small palette.
func dominantColor(img image.Image) string {
	bounds := img.Bounds()
	step := bounds.Dx() / 64
	if step < 1 {
		step = 1
	}

	counts := make(map[string]int)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, _ := img.At(x, y).RGBA()
			counts[nearestColorName(int(r>>8), int(g>>8), int(b>>8))]++
		}
	}

	best, bestCount := "varied", 0
	for name, count := range counts {
		if count > bestCount {
			best, bestCount = name, count
		}
	}
	return best
}

func nearestColorName(r, g, b int) string {
	best := "varied"
	bestDistance := 1 << 30
	for _, c := range namedColors {
		distance := (r-c.r)*(r-c.r) + (g-c.g)*(g-c.g) + (b-c.b)*(b-c.b)
		if distance < bestDistance {
			bestDistance = distance
			best = c.name
		}
	}
	return best
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
