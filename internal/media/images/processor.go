package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// recipeImageDir is the subdirectory of the media root holding recipe images.
	recipeImageDir = "recipes"

	// thumbWidth is the pixel width of generated thumbnails.
	thumbWidth = 320

	// jpegQuality for re-encoded uploads and thumbnails.
	jpegQuality = 90
)

// ErrInvalidImage is returned when uploaded data cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image data")

// ProcessedImage describes a stored upload.
type ProcessedImage struct {
	Path      string // Storage key of the full-size JPEG ("recipes/<id>.jpg")
	ThumbPath string // Storage key of the thumbnail
	BlurHash  string // Compact placeholder for clients to render while loading
}

// Processor turns uploaded image bytes into stored recipe images.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// Storage returns the underlying image storage.
func (p *Processor) Storage() *Storage {
	return p.storage
}

// ProcessUpload decodes an uploaded image and stores it under a fresh key.
//
// Whatever format comes in (JPEG, PNG, GIF, WebP), one JPEG goes to disk,
// which keeps serving simple and drops any metadata the original carried.
// A thumbnail and a BlurHash placeholder are derived from the same decode;
// both are best-effort and never fail the upload.
//
// Returns ErrInvalidImage when the data is not a decodable image.
func (p *Processor) ProcessUpload(data []byte) (*ProcessedImage, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	key := uuid.NewString()
	masterKey := path.Join(recipeImageDir, key+".jpg")
	thumbKey := ThumbKey(masterKey)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	if err := p.storage.Save(masterKey, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	processed := &ProcessedImage{
		Path:      masterKey,
		ThumbPath: thumbKey,
	}

	if err := p.saveThumbnail(img, thumbKey); err != nil {
		p.logger.Warn("failed to generate thumbnail", "key", thumbKey, "error", err)
		processed.ThumbPath = ""
	}

	hash, err := ComputeBlurHash(img)
	if err != nil {
		p.logger.Warn("failed to compute blurhash", "key", masterKey, "error", err)
	} else {
		processed.BlurHash = hash
	}

	p.logger.Debug("processed recipe image",
		"path", masterKey,
		"format", format,
		"upload_size", len(data),
		"stored_size", buf.Len(),
	)

	return processed, nil
}

// saveThumbnail scales the image down to thumbWidth and stores it.
func (p *Processor) saveThumbnail(img image.Image, key string) error {
	thumb := resizeWidth(img, thumbWidth)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}

	return p.storage.Save(key, buf.Bytes())
}

// Remove deletes a stored image and its thumbnail.
// Missing files are not an error, so Remove is safe to call twice.
func (p *Processor) Remove(imagePath string) error {
	if imagePath == "" {
		return nil
	}

	if err := p.storage.Delete(imagePath); err != nil {
		return err
	}

	return p.storage.Delete(ThumbKey(imagePath))
}

// ThumbKey derives the thumbnail key from a master image key.
// "recipes/abc.jpg" -> "recipes/abc_thumb.jpg".
func ThumbKey(imagePath string) string {
	ext := path.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + "_thumb" + ext
}

// resizeWidth scales an image down to the given width, preserving aspect
// ratio. Images already narrower are returned unchanged. CatmullRom is
// the slowest of the x/image kernels but produces the cleanest food
// photos, and thumbnails are generated once per upload.
func resizeWidth(src image.Image, width int) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() <= width {
		return src
	}

	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
