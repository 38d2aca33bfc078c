package domain

// ImageType is the canonical type of an accepted document image.
type ImageType string

const (
	ImageTypeJPEG ImageType = "jpeg"
	ImageTypePNG  ImageType = "png"
	ImageTypeGIF  ImageType = "gif"
	ImageTypeWebP ImageType = "webp"
)

// AllowedExtensions maps accepted file extensions to their image type.
var AllowedExtensions = map[string]ImageType{
	"jpg":  ImageTypeJPEG,
	"jpeg": ImageTypeJPEG,
	"png":  ImageTypePNG,
	"gif":  ImageTypeGIF,
	"webp": ImageTypeWebP,
}

// AllowedContentTypes is the set of MIME types accepted for upload.
// Both the client and the server validate against this set; the server
// additionally sniffs the actual bytes.
var AllowedContentTypes = map[string]ImageType{
	"image/jpeg": ImageTypeJPEG,
	"image/jpg":  ImageTypeJPEG,
	"image/png":  ImageTypePNG,
	"image/gif":  ImageTypeGIF,
	"image/webp": ImageTypeWebP,
}

// DefaultMaxFileSize is the default per-file upload limit in bytes (10 MB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024
