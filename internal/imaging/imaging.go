// Package imaging loads and validates report photos before submission.
// The whole file is read and decoded up front: once a preview exists, the
// bytes are already resolvable, so a submission can never go out with the
// scalar fields but a half-read image.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// MaxBytes caps accepted photo size. The server re-encodes anyway; this
// only protects the client from accidentally slurping huge files.
const MaxBytes = 10 << 20

// AllowedMIME lists the accepted input types, matched by sniffing bytes
// rather than trusting the file extension.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Attachment is a fully-read, decoded photo ready for preview and upload.
type Attachment struct {
	Filename string
	MIME     string
	Data     []byte
	Width    int
	Height   int

	img image.Image
}

// Load reads and decodes the image at path.
func Load(path string) (*Attachment, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if st.Size() > MaxBytes {
		return nil, fmt.Errorf("image %s is %d bytes; limit is %d", filepath.Base(path), st.Size(), MaxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return Decode(filepath.Base(path), data)
}

// Decode validates and decodes in-memory image bytes.
func Decode(filename string, data []byte) (*Attachment, error) {
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	b := img.Bounds()
	return &Attachment{
		Filename: filename,
		MIME:     detected,
		Data:     data,
		Width:    b.Dx(),
		Height:   b.Dy(),
		img:      img,
	}, nil
}

// Thumbnail returns the image downscaled so neither dimension exceeds
// maxDim, preserving aspect ratio. Catmull-Rom keeps small previews crisp.
func (a *Attachment) Thumbnail(maxDim int) image.Image {
	if maxDim < 1 {
		maxDim = 1
	}
	w, h := a.Width, a.Height
	if w <= maxDim && h <= maxDim {
		return a.img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = h * maxDim / w
	} else {
		newH = maxDim
		newW = w * maxDim / h
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), a.img, a.img.Bounds(), draw.Over, nil)
	return dst
}
