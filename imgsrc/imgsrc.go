// Package imgsrc loads images for drawing from local files or S3.
//
// References are either file paths or s3://bucket/key URLs. Images are
// decoded with their EXIF orientation applied, so photos come out upright.
package imgsrc

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
)

// ObjectGetter is the part of *s3.Client a Loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader resolves image references. The zero value reads local files from
// the working directory and creates an S3 client from the default AWS
// configuration the first time an s3:// reference is loaded.
type Loader struct {
	// FS serves local paths. Defaults to the os file system.
	FS fs.FS
	// S3 serves s3:// references.
	S3     ObjectGetter
	Logger *slog.Logger

	once sync.Once
	err  error
}

var defaultLoader Loader

// Load reads ref with a shared default Loader.
func Load(ctx context.Context, ref string) (image.Image, error) {
	return defaultLoader.Load(ctx, ref)
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func (l *Loader) client(ctx context.Context) (ObjectGetter, error) {
	l.once.Do(func() {
		if l.S3 != nil {
			return
		}
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			l.err = fmt.Errorf("imgsrc: load aws config: %w", err)
			return
		}
		l.S3 = s3.NewFromConfig(cfg)
	})
	return l.S3, l.err
}

// Load decodes the image at ref.
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	bucket, key, isS3, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	if !isS3 {
		return l.loadFile(ref)
	}

	c, err := l.client(ctx)
	if err != nil {
		return nil, err
	}
	l.logger().Debug("fetching image", slog.String("bucket", bucket), slog.String("key", key))
	out, err := c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapS3Err(ref, err)
	}
	defer out.Body.Close()
	img, err := imaging.Decode(out.Body, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("imgsrc: decode %s: %w", ref, err)
	}
	return img, nil
}

func (l *Loader) loadFile(path string) (image.Image, error) {
	if l.FS == nil {
		return imaging.Open(path, imaging.AutoOrientation(true))
	}
	f, err := l.FS.Open(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("imgsrc: decode %s: %w", path, err)
	}
	return img, nil
}

// ParseRef splits an s3://bucket/key reference. Anything without the s3
// scheme is a local path and returned with isS3 false.
func ParseRef(ref string) (bucket, key string, isS3 bool, err error) {
	if ref == "" {
		return "", "", false, fmt.Errorf("%w: empty", ErrInvalidRef)
	}
	if !strings.HasPrefix(ref, "s3://") {
		return "", "", false, nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", true, fmt.Errorf("%w: %v", ErrInvalidRef, err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", true, fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidRef, ref)
	}
	return u.Host, key, true, nil
}

// Fit shrinks img to fit inside bounds, keeping its aspect ratio. Images that
// already fit are returned unchanged.
func Fit(img image.Image, bounds image.Rectangle) image.Image {
	b := img.Bounds()
	if b.Dx() <= bounds.Dx() && b.Dy() <= bounds.Dy() {
		return img
	}
	return imaging.Fit(img, bounds.Dx(), bounds.Dy(), imaging.Lanczos)
}

// Rotate turns img clockwise by degrees, which must be a multiple of 90.
func Rotate(img image.Image, degrees int) (image.Image, error) {
	switch ((degrees % 360) + 360) % 360 {
	case 0:
		return img, nil
	case 90:
		return imaging.Rotate270(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate90(img), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrRotation, degrees)
}
