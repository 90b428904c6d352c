package audio

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/menubot/internal/errs"
	"github.com/edgard/menubot/internal/tempfile"
)

// Ingestor downloads a voice payload and transcodes it.
type Ingestor struct {
	fetcher     Fetcher
	transcoder  Transcoder
	maxDuration time.Duration
	log         *slog.Logger
}

// NewIngestor creates an Ingestor. A zero maxDuration disables the length check.
func NewIngestor(fetcher Fetcher, transcoder Transcoder, maxDuration time.Duration, log *slog.Logger) *Ingestor {
	if log == nil {
		log = slog.Default()
	}
	return &Ingestor{
		fetcher:     fetcher,
		transcoder:  transcoder,
		maxDuration: maxDuration,
		log:         log.With("component", "audio"),
	}
}

// Ingest stores the payload as an .ogg file and the decoded audio as a .wav
// file, both inside scope. Callers own scope cleanup.
func (i *Ingestor) Ingest(ctx context.Context, scope *tempfile.Scope, ref *VoiceRef) (*Decoded, error) {
	if ref == nil || ref.FileID == "" {
		return nil, errs.ErrNoAudioPayload
	}
	if i.maxDuration > 0 && ref.Duration > i.maxDuration {
		return nil, errs.Errorf(errs.KindTranscode, "voice note is %s, limit is %s", ref.Duration, i.maxDuration)
	}

	src, err := scope.Create(".ogg")
	if err != nil {
		return nil, errs.New(errs.KindTranscode, "failed to create source file", err)
	}
	n, err := i.fetcher.Fetch(ctx, *ref, src)
	if closeErr := src.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, errs.New(errs.KindTranscode, "failed to download voice payload", err)
	}
	if n == 0 {
		return nil, errs.Errorf(errs.KindTranscode, "voice payload %s is empty", ref.FileID)
	}

	dst, err := scope.Create(".wav")
	if err != nil {
		return nil, errs.New(errs.KindTranscode, "failed to create decoded file", err)
	}
	if err := dst.Close(); err != nil {
		return nil, errs.New(errs.KindTranscode, "failed to close decoded file", err)
	}

	start := time.Now()
	if err := i.transcoder.Transcode(ctx, src.Name(), dst.Name()); err != nil {
		return nil, errs.New(errs.KindTranscode, "failed to transcode voice payload", err)
	}

	info, err := InspectWAV(dst.Name())
	if err != nil {
		return nil, errs.New(errs.KindTranscode, "transcoder produced unusable audio", err)
	}
	if i.maxDuration > 0 && info.Duration > i.maxDuration {
		return nil, errs.Errorf(errs.KindTranscode, "decoded audio is %s, limit is %s", info.Duration, i.maxDuration)
	}

	i.log.Debug("Voice payload decoded",
		"file_id", ref.FileID,
		"bytes", n,
		"duration", info.Duration,
		"transcode_time", time.Since(start))

	return &Decoded{
		SourcePath: src.Name(),
		Path:       dst.Name(),
		Duration:   info.Duration,
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
	}, nil
}
