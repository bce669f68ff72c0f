package fexapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/unicode/norm"
)

// progressReader counts bytes as they are read and reports them through a
// ProgressFunc.
type progressReader struct {
	r        io.Reader
	done     int64
	total    int64
	progress ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.done += int64(n)

	if p.progress != nil && n > 0 {
		p.progress(p.done, p.total)
	}

	return n, err
}

// UploadFile streams a local file to an upload URL as a single multipart
// body. uploadURL is absolute — upload servers live on a different host
// than the API. The session cookie jar still applies.
//
// A transfer is judged successful only when the decoded response reports a
// truthy result; anything else is an error naming the file.
func (c *Client) UploadFile(ctx context.Context, uploadURL, localPath string, progress ProgressFunc) (*UploadedFile, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("fexapi: opening %s: %w", localPath, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("fexapi: stating %s: %w", localPath, err)
	}

	name := norm.NFC.String(filepath.Base(localPath))

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		src := &progressReader{r: f, total: fi.Size(), progress: progress}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}

		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, pr)
	if err != nil {
		return nil, fmt.Errorf("fexapi: creating upload request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Info("uploading file",
		slog.String("path", localPath),
		slog.String("name", name),
		slog.Int64("size", fi.Size()),
	)

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Err: ErrTransport}
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(resp.Body)

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(errBody),
			Err:        classifyStatus(resp.StatusCode),
		}
	}

	var uploaded UploadedFile
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decoding upload response: %v", err), Err: ErrTransport}
	}

	uploaded.Elapsed = elapsed

	if date, parseErr := http.ParseTime(resp.Header.Get("Date")); parseErr == nil {
		uploaded.Date = date
	}

	c.logger.Debug("upload response",
		slog.String("name", uploaded.Name),
		slog.Bool("result", uploaded.Result.Bool()),
		slog.Duration("elapsed", elapsed),
	)

	return &uploaded, nil
}
