package analyze

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TranscriptionUnavailable is the placeholder used when no speech-to-text
// backend is wired in. Consumers suppress it when building context.
const TranscriptionUnavailable = "Transcription unavailable due to resource constraints."

// Audio produces a property-based description of an audio file. WAV headers
// are parsed for duration and channel count; other containers get a
// description from the filename alone.
func Audio(path string) Result {
	result := Result{
		Filename:      filepath.Base(path),
		Transcription: TranscriptionUnavailable,
	}

	kind := audioKind(result.Filename)

	info, err := os.Stat(path)
	if err != nil {
		result.Err = err.Error()
		result.Description = fmt.Sprintf("This file is a %s recording that could not be analyzed.", kind)
		return result
	}

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		if duration, channels, err := readWavHeader(path); err == nil {
			minutes := int(duration) / 60
			seconds := int(duration) % 60
			description := fmt.Sprintf("This file is a %s of %d minutes and %d seconds. ", kind, minutes, seconds)
			switch channels {
			case 1:
				description += "The audio is mono. "
			case 2:
				description += "The audio is stereo. "
			default:
				description += fmt.Sprintf("The audio has %d channels. ", channels)
			}
			result.Description = description
			return result
		} else {
			result.Err = err.Error()
		}
	}

	result.Description = fmt.Sprintf("This file is a %s of %d bytes.", kind, info.Size())
	return result
}

func audioKind(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case containsAny(lower, "voice", "speech", "talk", "conversation"):
		return "voice recording"
	case containsAny(lower, "music", "song", "track"):
		return "music track"
	case containsAny(lower, "sound", "effect", "sfx"):
		return "sound effect"
	default:
		return "audio file"
	}
}

// readWavHeader parses a canonical RIFF/WAVE header and returns the duration
// in seconds and the channel count.
func readWavHeader(path string) (float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	header := make([]byte, 44)
	if _, err := f.Read(header); err != nil {
		return 0, 0, fmt.Errorf("failed to read WAV header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return 0, 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	channels := int(binary.LittleEndian.Uint16(header[22:24]))
	byteRate := binary.LittleEndian.Uint32(header[28:32])
	dataSize := binary.LittleEndian.Uint32(header[40:44])
	if byteRate == 0 {
		return 0, 0, fmt.Errorf("invalid WAV byte rate")
	}
	return float64(dataSize) / float64(byteRate), channels, nil
}
