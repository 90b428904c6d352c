package audio

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// WAVInfo is the header information of a decoded file.
type WAVInfo struct {
	Duration   time.Duration
	SampleRate int
	Channels   int
	BitDepth   int
}

// InspectWAV validates the WAV file at path and reads its header.
func InspectWAV(path string) (WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, fmt.Errorf("failed to open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		if dec.Err() != nil {
			return WAVInfo{}, fmt.Errorf("invalid wav file: %w", dec.Err())
		}
		return WAVInfo{}, errors.New("invalid wav file")
	}

	dur, err := dec.Duration()
	if err != nil {
		return WAVInfo{}, fmt.Errorf("failed to read wav duration: %w", err)
	}

	return WAVInfo{
		Duration:   dur,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}, nil
}
