// Package decoder wraps the barcode library: it loads images from bytes,
// files or URLs and returns the raw payload of the first code found.
package decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoding.
	_ "image/jpeg" // JPEG decoding.
	_ "image/png"  // PNG decoding.
	"io"
	"net/http"
	"os"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
	_ "golang.org/x/image/webp" // WebP decoding.
)

// ErrNoCode is returned when an image contains no recognizable code.
var ErrNoCode = errors.New("no code found")

// DefaultMaxBytes caps the size of downloaded or read images.
const DefaultMaxBytes = 10 << 20

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Decoder turns images into raw code payloads.
type Decoder struct {
	client   HTTPClient
	timeout  time.Duration
	maxBytes int64
}

// New creates a Decoder that downloads remote images with client.
func New(client HTTPClient, maxBytes int64) *Decoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Decoder{
		client:   client,
		timeout:  30 * time.Second,
		maxBytes: maxBytes,
	}
}

// DecodeURL downloads an image and decodes it.
func (d *Decoder) DecodeURL(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "QRScanBot/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return d.DecodeReader(resp.Body)
}

// DecodeFile reads an image from disk and decodes it.
func (d *Decoder) DecodeFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the local user
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()
	return d.DecodeReader(f)
}

// DecodeReader reads at most the configured number of bytes and decodes them.
func (d *Decoder) DecodeReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, d.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > d.maxBytes {
		return "", fmt.Errorf("image larger than %d bytes", d.maxBytes)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return DecodeImage(img)
}

// DecodeImage returns the payload of the first code found in img.
// QR codes are tried first, then common 1D formats.
func DecodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize image: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	readers := []gozxing.Reader{
		qrcode.NewQRCodeReader(),
		oned.NewCode128Reader(),
		oned.NewEAN13Reader(),
	}
	for _, reader := range readers {
		result, err := reader.Decode(bmp, hints)
		if err != nil || result.GetText() == "" {
			continue
		}
		return result.GetText(), nil
	}
	return "", ErrNoCode
}
