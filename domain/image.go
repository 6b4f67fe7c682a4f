package domain

type ImageType string

const (
	ImageTypeUnknown ImageType = "unknown"
	ImageTypeJPG     ImageType = "jpeg"
	ImageTypePNG     ImageType = "png"
)

var SupportedContentTypes = map[string]ImageType{
	"image/jpeg": ImageTypeJPG,
	"image/jpg":  ImageTypeJPG,
	"image/png":  ImageTypePNG,
}

func ParseImageType(format string) ImageType {
	switch ImageType(format) {
	case ImageTypeJPG, ImageTypePNG:
		return ImageType(format)
	}
	return ImageTypeUnknown
}
