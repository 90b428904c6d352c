// Package pipeline handles one inbound message from receipt to delivery:
// voice ingestion, transcription, prompt building, generation, segmentation
// and delivery, with guaranteed cleanup of the request's temporary files.
package pipeline

import (
	"context"

	"github.com/edgard/menubot/internal/audio"
	"github.com/edgard/menubot/internal/delivery"
)

// Kind is the kind of an inbound message.
type Kind string

const (
	KindVoice Kind = "voice"
	KindText  Kind = "text"
)

// Message is an inbound voice or text message.
type Message interface {
	Kind() Kind
}

// VoiceMessage carries a reference to a voice payload. Ref may be nil when
// the platform delivered a voice update without usable audio.
type VoiceMessage struct {
	Ref *audio.VoiceRef
}

func (VoiceMessage) Kind() Kind { return KindVoice }

// TextMessage carries the text the user typed.
type TextMessage struct {
	Body string
}

func (TextMessage) Kind() Kind { return KindText }

// Conversation is the reply channel of the chat a message came from.
type Conversation interface {
	delivery.Sender
	Typing(ctx context.Context) error
}

// Outcome is the final state of a handled message.
type Outcome string

const (
	OutcomeOK                  Outcome = "ok"
	OutcomeDegraded            Outcome = "degraded"
	OutcomeNoAudio             Outcome = "no_audio"
	OutcomeTranscodeFailed     Outcome = "transcode_failed"
	OutcomeTranscriptionFailed Outcome = "transcription_failed"
	OutcomeUnexpected          Outcome = "unexpected"
)
