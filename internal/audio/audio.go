// Package audio turns an inbound voice note into a 16 kHz mono WAV file that
// speech-to-text services accept.
package audio

import (
	"context"
	"io"
	"time"
)

// VoiceRef identifies a voice payload on the messaging platform.
type VoiceRef struct {
	FileID   string
	MimeType string
	Duration time.Duration
	Size     int64
}

// Decoded describes the transcoded audio of one request.
// Both files belong to the request's tempfile.Scope.
type Decoded struct {
	SourcePath string
	Path       string
	Duration   time.Duration
	SampleRate int
	Channels   int
}

// Fetcher downloads the raw bytes of a voice payload into w.
type Fetcher interface {
	Fetch(ctx context.Context, ref VoiceRef, w io.Writer) (int64, error)
}

// Transcoder converts the container file at src into a WAV file at dst.
type Transcoder interface {
	Transcode(ctx context.Context, src, dst string) error
}
