// Package media prepares user supplied images for upload and preview.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
)

// DefaultLimit caps an uploaded image at 5 MiB.
const DefaultLimit = 5 << 20

// Image is a decoded upload with its sniffed MIME type.
type Image struct {
	Data []byte
	MIME string
	Ext  string
}

// DataURL renders the image as a data: URL usable by an <img> tag.
func (i Image) DataURL() string {
	return "data:" + i.MIME + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Preview reads at most limit bytes from r and accepts the content only when it
// is an image. A non-positive limit selects DefaultLimit.
func Preview(ctx context.Context, r io.Reader, limit int64) (Image, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, &ctxReader{ctx: ctx, r: io.LimitReader(r, limit+1)}); err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	if int64(buf.Len()) > limit {
		return Image{}, domainErrors.Invalid("image", fmt.Sprintf("image is larger than %d bytes", limit))
	}
	if buf.Len() == 0 {
		return Image{}, domainErrors.Invalid("image", "image is empty")
	}

	detected := mimetype.Detect(buf.Bytes())
	if !strings.HasPrefix(detected.String(), "image/") {
		return Image{}, domainErrors.Invalid("image", fmt.Sprintf("unsupported file type %s", detected.String()))
	}

	return Image{
		Data: buf.Bytes(),
		MIME: detected.String(),
		Ext:  detected.Extension(),
	}, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
