package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hexfractal/pkg/fractal"
)

// Uploader publishes an encoded snapshot and returns where it was stored.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Save renders inst, writes it through capture and, when up is not nil,
// uploads the encoded file under the same name. Upload failures are
// logged and do not fail the snapshot.
func Save(ctx context.Context, inst fractal.Instances, opt Options, format string,
	capture *Capture, up Uploader, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	start := time.Now()
	img, err := RenderInstances(inst, opt)
	if err != nil {
		return "", fmt.Errorf("rendering snapshot: %w", err)
	}
	log.Debug("snapshot rendered",
		zap.Int("instances", inst.Len()),
		zap.Int("width", opt.Width),
		zap.Int("height", opt.Height),
		zap.Duration("took", time.Since(start)))

	path, err := capture.Save(img, format)
	if err != nil {
		return "", err
	}

	if up == nil {
		return path, nil
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return path, fmt.Errorf("encoding for upload: %w", err)
	}
	if _, err := up.Upload(ctx, filepath.Base(path), buf.Bytes(), ContentType(format)); err != nil {
		log.Warn("snapshot upload failed", zap.String("path", path), zap.Error(err))
	}
	return path, nil
}
