package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Output format expected by the transcription backends.
const (
	DefaultSampleRate = 16000
	DefaultChannels   = 1
)

// FFmpeg transcodes through the ffmpeg binary.
type FFmpeg struct {
	Binary     string
	SampleRate int
	Channels   int
}

// NewFFmpeg returns an FFmpeg transcoder producing 16 kHz mono WAV.
// An empty binary resolves "ffmpeg" from PATH.
func NewFFmpeg(binary string) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{
		Binary:     binary,
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
	}
}

func (f *FFmpeg) args(src, dst string) []string {
	return []string{
		"-nostdin", "-y",
		"-loglevel", "error",
		"-i", src,
		"-ac", strconv.Itoa(f.Channels),
		"-ar", strconv.Itoa(f.SampleRate),
		"-f", "wav",
		dst,
	}
}

// Transcode runs ffmpeg and returns its stderr on failure.
func (f *FFmpeg) Transcode(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, f.Binary, f.args(src, dst)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg interrupted: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("ffmpeg failed: %w", err)
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, msg)
	}
	return nil
}
