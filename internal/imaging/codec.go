package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/cellshade/internal/grid"
)

// DefaultJPEGQuality matches the quality most photo tools write by default.
const DefaultJPEGQuality = 75

// Format is an output encoding.
type Format string

// Supported output formats.
const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
)

var encoderFormats = map[Format]imaging.Format{
	JPEG: imaging.JPEG,
	PNG:  imaging.PNG,
	GIF:  imaging.GIF,
	TIFF: imaging.TIFF,
	BMP:  imaging.BMP,
}

// SupportsAlpha reports whether f can store an alpha channel.
func (f Format) SupportsAlpha() bool {
	return f != JPEG
}

// FormatFromPath infers the output format from the file extension.
//
// Recognised extensions are .jpg, .jpeg, .png, .gif, .tif, .tiff and .bmp,
// case-insensitively.
func FormatFromPath(path string) (Format, error) {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return "", fmt.Errorf("no output format for %q: %w", path, err)
	}
	return Format(strings.ToLower(f.String())), nil
}

// DecodeError reports an input image that could not be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a grid that could not be written.
type EncodeError struct {
	Path   string
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode %s image %s: %v", e.Format, e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Codec converts between image files and pixel grids.
//
// The zero value is usable and writes JPEG at DefaultJPEGQuality.
type Codec struct {
	// JPEGQuality is the JPEG quality in [1, 100]. Zero selects
	// DefaultJPEGQuality.
	JPEGQuality int
}

// NewCodec returns a codec writing JPEG at the given quality.
func NewCodec(jpegQuality int) *Codec {
	return &Codec{JPEGQuality: jpegQuality}
}

// Decode reads the image at path into a grid.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, GIF, BMP, TIFF and WebP.
//
// Returns:
//   - *grid.Grid: The decoded pixels. Images that carry transparency become
//     RGBA grids, everything else becomes RGB.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// EXIF orientation is applied before the pixels are copied.
//
// # Errors
//
//   - Returns *DecodeError if the file does not exist or cannot be read
//   - Returns *DecodeError if the file is not a supported image
func (c *Codec) Decode(path string) (*grid.Grid, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return FromImage(img), nil
}

// Encode writes g to path in the given format.
//
// Parameters:
//   - g: The grid to write.
//   - path: Destination file. An existing file is overwritten.
//   - format: One of JPEG, PNG, GIF, TIFF or BMP. JPEG uses the codec's
//     quality setting.
//
// Returns:
//   - error: Non-nil if nothing usable was written.
//
// RGBA grids written as JPEG are flattened to RGB by dropping alpha; colour
// values are kept as stored.
//
// # Errors
//
//   - Returns *EncodeError wrapping imaging.ErrUnsupportedFormat for an
//     unknown format
//   - Returns *EncodeError wrapping *grid.InvalidGridError for a malformed grid
//   - Returns *EncodeError if the file cannot be created or encoding fails;
//     the partially written file is removed
func (c *Codec) Encode(g *grid.Grid, path string, format Format) error {
	encFormat, ok := encoderFormats[format]
	if !ok {
		return &EncodeError{Path: path, Format: format, Err: imaging.ErrUnsupportedFormat}
	}
	if err := g.Validate(); err != nil {
		return &EncodeError{Path: path, Format: format, Err: err}
	}

	img := ToImage(g)
	if !format.SupportsAlpha() {
		flatten(img)
	}

	f, err := os.Create(path)
	if err != nil {
		return &EncodeError{Path: path, Format: format, Err: err}
	}
	if err := imaging.Encode(f, img, encFormat, imaging.JPEGQuality(c.quality())); err != nil {
		f.Close()
		os.Remove(path)
		return &EncodeError{Path: path, Format: format, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return &EncodeError{Path: path, Format: format, Err: err}
	}
	return nil
}

// Save writes g to path in the format implied by its extension.
func (c *Codec) Save(g *grid.Grid, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return c.Encode(g, path, format)
}

func (c *Codec) quality() int {
	if c == nil || c.JPEGQuality == 0 {
		return DefaultJPEGQuality
	}
	return c.JPEGQuality
}

// FromImage copies img into a grid anchored at the origin.
//
// The grid mode is RGBA when img is not opaque and its colour model can carry
// alpha, and RGB otherwise. Channel values are stored non-premultiplied.
func FromImage(img image.Image) *grid.Grid {
	mode := modeOf(img)
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	g, _ := grid.New(w, h, mode)
	n := mode.Channels()
	pix := g.Pix()
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			copy(pix[(y*w+x)*n:(y*w+x)*n+n], row[x*4:x*4+n])
		}
	}
	return g
}

// ToImage copies g into a non-premultiplied image. RGB grids get full
// opacity.
func ToImage(g *grid.Grid) *image.NRGBA {
	w, h := g.Width(), g.Height()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	n := g.Mode().Channels()
	pix := g.Pix()
	for i := 0; i < w*h; i++ {
		copy(img.Pix[i*4:i*4+3], pix[i*n:i*n+3])
		if n == 4 {
			img.Pix[i*4+3] = pix[i*n+3]
		} else {
			img.Pix[i*4+3] = 0xff
		}
	}
	return img
}

// flatten marks every pixel fully opaque without compositing.
func flatten(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}

func modeOf(img image.Image) grid.Mode {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return grid.RGB
	}
	if hasAlphaModel(img.ColorModel()) {
		return grid.RGBA
	}
	return grid.RGB
}

func hasAlphaModel(m color.Model) bool {
	switch m {
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model, color.AlphaModel, color.Alpha16Model:
		return true
	}
	_, paletted := m.(color.Palette)
	return paletted
}

// ImageInfo contains metadata about an image file read from its header.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int

	// Height is the image height in pixels.
	Height int

	// Format is the decoder that recognised the file, such as "png" or "jpeg".
	Format string

	// HasAlpha indicates whether the colour model can carry transparency.
	HasAlpha bool

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64
}

// Info reads the header of the image at path without decoding pixel data.
//
// Returns *DecodeError if the file cannot be opened or its format is not
// recognised.
func Info(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	return &ImageInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		HasAlpha:      hasAlphaModel(cfg.ColorModel),
		FileSizeBytes: stat.Size(),
	}, nil
}
