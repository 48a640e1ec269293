package domain

// ImageType represents the allowed product image types.
type ImageType string

const (
	ImageTypeJPG ImageType = "jpg"
	ImageTypePNG ImageType = "png"
)

// AllowedImageContentTypes maps MIME content types to ImageType.
var AllowedImageContentTypes = map[string]ImageType{
	"image/jpeg": ImageTypeJPG,
	"image/png":  ImageTypePNG,
}

// AllowedImageExtensions maps file extensions (without dot) to ImageType.
var AllowedImageExtensions = map[string]ImageType{
	"jpg":  ImageTypeJPG,
	"jpeg": ImageTypeJPG,
	"png":  ImageTypePNG,
}

// UserRole defines what an operator may do.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

// ValidUserRoles is the set of assignable roles.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin: true,
	RoleStaff: true,
}

// GSTType says whether a supplier bill carries GST.
type GSTType string

const (
	GSTTypeWith    GSTType = "with"
	GSTTypeWithout GSTType = "without"
)
