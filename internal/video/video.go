package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/taptide/beerscroll/internal/config"
	"github.com/taptide/beerscroll/internal/system"
)

// FrameWriter consumes composed frames in order. The frame may be reused
// by the caller once WriteFrame returns.
type FrameWriter interface {
	WriteFrame(img *image.RGBA) error
	Close() error
}

// StreamEncoder pipes raw RGBA frames into one ffmpeg process.
type StreamEncoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	log    bytes.Buffer
	params config.SegmentParams
	pool   *system.ImagePool
	frames int
}

// NewStreamEncoder starts ffmpeg writing videoPath. audioPath may be empty.
func NewStreamEncoder(
	ctx context.Context,
	videoPath string,
	params config.SegmentParams,
	encoderName string,
	quality int,
	audioPath string,
) (*StreamEncoder, error) {
	e := &StreamEncoder{params: params, pool: system.NewImagePool()}

	args := buildFFmpegArgs(params, videoPath, encoderName, quality, audioPath)
	e.cmd = exec.CommandContext(ctx, "ffmpeg", args...)
	e.cmd.Stdout = &e.log
	e.cmd.Stderr = &e.log

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	system.Logger().Debug("ffmpeg started", "args", args)
	return e, nil
}

func buildFFmpegArgs(params config.SegmentParams, videoPath, encoderName string, quality int, audioPath string) []string {
	// Используем rawvideo через stdin для исключения I/O на диск
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
	}
	if audioPath != "" {
		args = append(args, "-i", audioPath, "-map", "0:v", "-map", "1:a", "-c:a", "aac", "-shortest")
	}
	args = append(args,
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	)

	// Качество в зависимости от энкодера
	switch encoderName {
	case "h264_videotoolbox":
		bitrate := quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", quality), "-preset", "medium")
	}

	args = append(args, videoPath)
	return args
}

func (e *StreamEncoder) WriteFrame(img *image.RGBA) error {
	if img.Rect.Dx() != e.params.Width || img.Rect.Dy() != e.params.Height {
		return fmt.Errorf("frame %d is %dx%d, stream is %dx%d",
			e.frames, img.Rect.Dx(), img.Rect.Dy(), e.params.Width, e.params.Height)
	}
	if err := e.writeRawRGBA(img); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	e.frames++
	return nil
}

func (e *StreamEncoder) writeRawRGBA(img *image.RGBA) error {
	bounds := img.Bounds()
	// Проверяем стандартный шаг (stride), иначе копируем в буфер из пула
	if img.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		buf := e.pool.Get(bounds.Size())
		defer e.pool.Put(buf)
		draw.Draw(buf, buf.Bounds(), img, bounds.Min, draw.Src)
		img = buf
	}
	_, err := e.stdin.Write(img.Pix)
	return err
}

// Close finishes the stream and waits for ffmpeg.
func (e *StreamEncoder) Close() error {
	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, e.log.String())
	}
	return nil
}

// Frames counts frames written.
func (e *StreamEncoder) Frames() int { return e.frames }
