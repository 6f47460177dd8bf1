package imgsrc

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return buf.Bytes()
}

type fakeS3 struct {
	objects map[string][]byte
	err     error
	gets    []string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	name := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.gets = append(f.gets, name)
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[name]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "not found"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestParseRef(t *testing.T) {
	cases := []struct {
		Ref    string
		Bucket string
		Key    string
		IsS3   bool
		Err    bool
	}{
		{"photo.png", "", "", false, false},
		{"/home/root/photo.png", "", "", false, false},
		{"s3://art/covers/a.png", "art", "covers/a.png", true, false},
		{"s3://art/", "", "", true, true},
		{"s3:///a.png", "", "", true, true},
		{"", "", "", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.Ref, func(t *testing.T) {
			bucket, key, isS3, err := ParseRef(tc.Ref)
			if tc.Err {
				if !errors.Is(err, ErrInvalidRef) {
					t.Fatalf("Expected ErrInvalidRef, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if bucket != tc.Bucket || key != tc.Key || isS3 != tc.IsS3 {
				t.Fatalf("Expected (%q, %q, %v), got (%q, %q, %v)", tc.Bucket, tc.Key, tc.IsS3, bucket, key, isS3)
			}
		})
	}
}

func TestLoadFromFS(t *testing.T) {
	l := &Loader{FS: fstest.MapFS{
		"img/a.png": &fstest.MapFile{Data: encodePNG(t, 4, 3)},
	}}
	img, err := l.Load(context.Background(), "/img/a.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("Expected a 4x3 image, got %v", b)
	}

	if _, err := l.Load(context.Background(), "img/missing.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	if err := os.WriteFile(path, encodePNG(t, 5, 7), 0o644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var l Loader
	img, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 7 {
		t.Fatalf("Expected a 5x7 image, got %v", b)
	}
}

func TestLoadFromS3(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{"art/a.png": encodePNG(t, 2, 2)}}
	l := &Loader{S3: fake}
	img, err := l.Load(context.Background(), "s3://art/a.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("Expected a 2x2 image, got %v", b)
	}
	if len(fake.gets) != 1 || fake.gets[0] != "art/a.png" {
		t.Fatalf("Expected one get of art/a.png, got %v", fake.gets)
	}

	_, err = l.Load(context.Background(), "s3://art/b.png")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Expected fs.ErrNotExist, got %v", err)
	}
	var pe *fs.PathError
	if !errors.As(err, &pe) || pe.Path != "s3://art/b.png" {
		t.Fatalf("Expected a path error for the reference, got %v", err)
	}
}

func TestMapS3Err(t *testing.T) {
	cases := []struct {
		Code     string
		Expected error
	}{
		{"NoSuchKey", fs.ErrNotExist},
		{"NoSuchBucket", fs.ErrNotExist},
		{"AccessDenied", fs.ErrPermission},
		{"AllAccessDisabled", fs.ErrPermission},
	}
	for _, tc := range cases {
		err := mapS3Err("s3://a/b", &smithy.GenericAPIError{Code: tc.Code})
		if !errors.Is(err, tc.Expected) {
			t.Fatalf("Expected %s to map to %v, got %v", tc.Code, tc.Expected, err)
		}
		var ae smithy.APIError
		if !errors.As(err, &ae) {
			t.Fatalf("Expected the api error to be kept, got %v", err)
		}
	}

	other := errors.New("boom")
	if err := mapS3Err("s3://a/b", other); err != other {
		t.Fatalf("Expected unknown errors to pass through, got %v", err)
	}
}

func TestFit(t *testing.T) {
	small := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if out := Fit(small, image.Rect(0, 0, 100, 100)); out != image.Image(small) {
		t.Fatalf("Expected an image that fits to be returned as is")
	}

	wide := image.NewNRGBA(image.Rect(0, 0, 400, 100))
	out := Fit(wide, image.Rect(0, 0, 200, 200))
	if b := out.Bounds(); b.Dx() != 200 || b.Dy() != 50 {
		t.Fatalf("Expected 200x50, got %v", b)
	}
}

func TestRotate(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0xff})

	out, err := Rotate(img, 90)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 2 || b.Dy() != 4 {
		t.Fatalf("Expected 2x4, got %v", b)
	}
	// clockwise: the top-left corner moves to the top-right
	if r, _, _, _ := out.At(1, 0).RGBA(); r != 0xffff {
		t.Fatalf("Expected the marked pixel at (1,0), got %v", out.At(1, 0))
	}

	if out, err := Rotate(img, -360); err != nil || out != image.Image(img) {
		t.Fatalf("Expected a full turn to return the image, got %v", err)
	}
	if _, err := Rotate(img, 45); !errors.Is(err, ErrRotation) {
		t.Fatalf("Expected ErrRotation, got %v", err)
	}
}
