package validate

const (
	MaxFileSize int64 = 300 * 1024 * 1024

	MinResizeHeight int = 1
	MaxResizeHeight int = 10000
)

var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}
