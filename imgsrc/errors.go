package imgsrc

import (
	"errors"
	"io/fs"

	"github.com/aws/smithy-go"
)

var (
	ErrInvalidRef = errors.New("imgsrc: invalid image reference")
	ErrRotation   = errors.New("imgsrc: rotation must be a multiple of 90 degrees")
)

// mapS3Err turns S3 error codes into the fs errors a local load would return.
func mapS3Err(ref string, err error) error {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "AccessDenied", "AllAccessDisabled":
			return &fs.PathError{Op: "open", Path: ref, Err: errors.Join(fs.ErrPermission, err)}
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return &fs.PathError{Op: "open", Path: ref, Err: errors.Join(fs.ErrNotExist, err)}
		}
	}
	return err
}
