package source

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/webp"
)

// FramePath renders the asset name of the 1-based frame n:
// {base}{zero-padded 3-digit n}.jpg.
func FramePath(base string, n int) string {
	return fmt.Sprintf("%s%03d.jpg", base, n)
}

// Sequence is a numbered image sequence following FramePath. A base that
// starts with http:// or https:// is fetched over HTTP, anything else is read
// from disk.
type Sequence struct {
	base   string
	count  int
	client *http.Client
}

func NewSequence(base string, count int) (*Sequence, error) {
	if base == "" {
		return nil, fmt.Errorf("empty sequence base path")
	}
	if count <= 0 {
		return nil, fmt.Errorf("sequence %q: frame count must be positive, got %d", base, count)
	}
	return &Sequence{base: base, count: count, client: http.DefaultClient}, nil
}

// WithClient replaces the HTTP client used for remote sequences.
func (s *Sequence) WithClient(c *http.Client) *Sequence {
	s.client = c
	return s
}

func (s *Sequence) FrameCount() int {
	return s.count
}

// Path returns the asset path of the zero-based frame index.
func (s *Sequence) Path(index int) string {
	return FramePath(s.base, index+1)
}

func (s *Sequence) Dimensions(ctx context.Context, index int) (float64, float64, error) {
	rc, err := s.open(ctx, index)
	if err != nil {
		return 0, 0, err
	}
	defer rc.Close()

	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", s.Path(index), err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

func (s *Sequence) LoadFrame(ctx context.Context, index int) (image.Image, error) {
	rc, err := s.open(ctx, index)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path(index), err)
	}
	return img, nil
}

func (s *Sequence) Close() error {
	return nil
}

func (s *Sequence) remote() bool {
	return strings.HasPrefix(s.base, "http://") || strings.HasPrefix(s.base, "https://")
}

func (s *Sequence) open(ctx context.Context, index int) (io.ReadCloser, error) {
	if index < 0 || index >= s.count {
		return nil, fmt.Errorf("frame %d: %w", index, ErrFrameRange)
	}
	path := s.Path(index)

	if !s.remote() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return os.Open(path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %s", path, resp.Status)
	}
	return resp.Body, nil
}
