package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/menubot/internal/audio"
)

// DefaultMaxDownloadBytes is the Bot API limit for getFile downloads.
const DefaultMaxDownloadBytes = 20 << 20

var errTooLarge = errors.New("file exceeds download limit")

// FileAPI is the part of *bot.Bot used to resolve file paths.
type FileAPI interface {
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
}

// FetchOptions configure a FileFetcher.
type FetchOptions struct {
	APIURL     string
	MaxBytes   int64
	Retries    int
	RetryDelay time.Duration
	Client     *http.Client
}

// FileFetcher downloads voice payloads through the Bot API file endpoint.
type FileFetcher struct {
	api   FileAPI
	token string
	opts  FetchOptions
	log   *slog.Logger
}

// NewFileFetcher creates a FileFetcher for the bot with the given token.
func NewFileFetcher(api FileAPI, token string, opts FetchOptions, log *slog.Logger) *FileFetcher {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	opts.APIURL = strings.TrimRight(opts.APIURL, "/")
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxDownloadBytes
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}
	return &FileFetcher{api: api, token: token, opts: opts, log: log.With("component", "file_fetcher")}
}

// Fetch resolves ref to a download URL and writes the payload to w.
// Network errors and 5xx responses are retried; 4xx responses are not.
func (f *FileFetcher) Fetch(ctx context.Context, ref audio.VoiceRef, w io.Writer) (int64, error) {
	if ref.Size > f.opts.MaxBytes {
		return 0, fmt.Errorf("voice payload of %d bytes: %w", ref.Size, errTooLarge)
	}

	file, err := f.api.GetFile(ctx, &bot.GetFileParams{FileID: ref.FileID})
	if err != nil {
		return 0, fmt.Errorf("failed to get file: %w", err)
	}
	if file.FilePath == "" {
		return 0, fmt.Errorf("empty file path returned from Telegram for %s", ref.FileID)
	}

	url := fmt.Sprintf("%s/file/bot%s/%s", f.opts.APIURL, f.token, file.FilePath)

	attempt := 0
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = f.opts.RetryDelay
	data, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		return f.download(ctx, url)
	},
		backoff.WithBackOff(exp),
		backoff.WithMaxTries(uint(max(f.opts.Retries, 0)+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			f.log.WarnContext(ctx, "Voice download failed, retrying", "file_id", ref.FileID, "attempt", attempt, "next", next, "error", err)
		}))
	if err != nil {
		return 0, fmt.Errorf("failed to download file: %w", err)
	}

	n, err := io.Copy(w, bytes.NewReader(data))
	if err != nil {
		return n, fmt.Errorf("failed to write file data: %w", err)
	}
	return n, nil
}

func (f *FileFetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	resp, err := f.opts.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file data: %w", err)
	}
	if int64(len(data)) > f.opts.MaxBytes {
		return nil, backoff.Permanent(errTooLarge)
	}
	return data, nil
}
