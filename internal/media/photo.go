package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/infra/storage"
)

const (
	MaxPhotoSide  = 512
	MaxUploadSize = 5 << 20
	webpQuality   = 80
)

// ToWebP decodes a JPEG or PNG, scales it down so that its longest side is
// at most maxSide, and encodes it as WebP.
func ToWebP(r io.Reader, maxSide int) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, MaxUploadSize))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_image")
	}

	dst := fit(src, maxSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("webp encode: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return src
	}

	if w >= h {
		h = h * maxSide / w
		w = maxSide
	} else {
		w = w * maxSide / h
		h = maxSide
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// PhotoUploader converts professional photos and stores them.
type PhotoUploader struct {
	store storage.ObjectStore
}

func NewPhotoUploader(store storage.ObjectStore) *PhotoUploader {
	return &PhotoUploader{store: store}
}

// Upload returns the public URL of the stored WebP.
func (u *PhotoUploader) Upload(ctx context.Context, salonID, professionalID uint, r io.Reader) (string, error) {
	if u == nil || u.store == nil {
		return "", httperr.ErrBusiness("storage_disabled")
	}

	data, err := ToWebP(r, MaxPhotoSide)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("salons/%d/professionals/%d/%s.webp", salonID, professionalID, uuid.NewString())
	return u.store.Put(ctx, key, "image/webp", data)
}
