package services

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// Uploaded images are shrunk to fit this box before being kept in a session.
const (
	maxAssetWidth  = 1200
	maxAssetHeight = 600
)

// ImageAsset is a logo or signature image ready for the PDF renderer.
type ImageAsset struct {
	FileName string
	// PNG holds the normalised image, always PNG encoded.
	PNG    []byte
	Width  int
	Height int
}

// NormalizeImageAsset decodes an uploaded PNG or JPEG, bounds its size and
// re-encodes it as a non-interlaced PNG so the PDF writer can embed it.
func NormalizeImageAsset(fileName string, data []byte) (*ImageAsset, error) {
	mt := mimetype.Detect(data)
	if !mt.Is("image/png") && !mt.Is("image/jpeg") {
		return nil, fmt.Errorf("unsupported image type %s", mt.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > maxAssetWidth || b.Dy() > maxAssetHeight {
		img = imaging.Fit(img, maxAssetWidth, maxAssetHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	bounds := img.Bounds()
	return &ImageAsset{
		FileName: fileName,
		PNG:      buf.Bytes(),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

// LoadImageAsset checks that an optional asset is present and still decodes
// as a PNG. The renderer draws the image only when ok is true and reserves the
// same blank space otherwise.
func LoadImageAsset(asset *ImageAsset) (png []byte, ok bool) {
	if asset == nil || len(asset.PNG) == 0 {
		return nil, false
	}
	if !mimetype.Detect(asset.PNG).Is("image/png") {
		return nil, false
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(asset.PNG)); err != nil {
		return nil, false
	}
	return asset.PNG, true
}

// pngWidth returns the pixel width of an encoded image, or 0 when unreadable.
func pngWidth(data []byte) int {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	return cfg.Width
}
