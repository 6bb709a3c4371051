package models

// ImageKind classifies one entry of Product.Images by who owns the bytes.
type ImageKind int

const (
	// ImageLocal is a path relative to the server's own upload root.
	ImageLocal ImageKind = iota
	// ImageCloud is an absolute URL on a managed object store we upload to.
	ImageCloud
	// ImageExternal is a caller-supplied URL owned by a third party.
	ImageExternal
	// ImageInline is a self-contained data: payload.
	ImageInline
)

func (k ImageKind) String() string {
	switch k {
	case ImageLocal:
		return "local"
	case ImageCloud:
		return "cloud"
	case ImageExternal:
		return "external"
	case ImageInline:
		return "inline"
	}
	return "unknown"
}

// Owned reports whether assets of this kind must be removed from storage
// when the last reference to them is dropped.
func (k ImageKind) Owned() bool {
	return k == ImageLocal || k == ImageCloud
}
