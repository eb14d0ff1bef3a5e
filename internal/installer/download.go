package installer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/flykit-labs/flykit/internal/platform"
	"github.com/flykit-labs/flykit/internal/userdata"
)

// Download fetches rawURL into dest on a new goroutine. Progress messages
// arrive on the returned channel, which is closed after the final message.
// Callers must drain it.
func (d *Downloader) Download(ctx context.Context, rawURL, dest string) <-chan Progress {
	updates := make(chan Progress, 8)
	go func() {
		defer close(updates)
		path, err := d.fetch(ctx, rawURL, dest, updates)
		updates <- Progress{Done: true, Path: path, Err: err}
	}()
	return updates
}

// Wait drains updates and returns the final result, calling onProgress for
// every intermediate message when it is non-nil.
func Wait(updates <-chan Progress, onProgress func(Progress)) (string, error) {
	var last Progress
	for p := range updates {
		if p.Done {
			last = p
			continue
		}
		if onProgress != nil {
			onProgress(p)
		}
	}
	if !last.Done {
		return "", fmt.Errorf("download ended without a result")
	}
	return last.Path, last.Err
}

func (d *Downloader) fetch(ctx context.Context, rawURL, dest string, updates chan<- Progress) (string, error) {
	log := d.logger.With(zap.String("url", rawURL))

	if err := os.MkdirAll(filepath.Dir(dest), userdata.DirPermNormal); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	part := dest + ".part"
	f, err := os.Create(part)
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	h := sha256.New()
	copyErr := copyWithProgress(ctx, io.MultiWriter(f, h), resp.Body, resp.ContentLength, updates)
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(part)
		return "", copyErr
	}

	if err := d.verify(h); err != nil {
		os.Remove(part)
		return "", err
	}
	if err := os.Rename(part, dest); err != nil {
		os.Remove(part)
		return "", fmt.Errorf("moving download into place: %w", err)
	}
	if err := platform.MakeExecutable(dest); err != nil {
		return "", fmt.Errorf("marking %s executable: %w", dest, err)
	}

	log.Info("download complete", zap.String("path", dest))
	return dest, nil
}

func copyWithProgress(ctx context.Context, w io.Writer, r io.Reader, total int64, updates chan<- Progress) error {
	if total <= 0 {
		total = -1
	}
	var downloaded int64
	lastPercent := -2

	buf := make([]byte, 32*1024)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return fmt.Errorf("writing download: %w", err)
			}
			downloaded += int64(n)
			percent := -1
			if total > 0 {
				percent = int(downloaded * 100 / total)
			}
			if percent != lastPercent || total < 0 {
				lastPercent = percent
				select {
				case updates <- Progress{Downloaded: downloaded, Total: total, Percent: percent}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("reading download stream: %w", readErr)
		}
	}
}

func (d *Downloader) verify(h hash.Hash) error {
	if d.checksum == "" {
		return nil
	}
	actual := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(actual, strings.TrimSpace(d.checksum)) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", d.checksum, actual)
	}
	return nil
}
