package libs

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"product-catalog/config"
	"product-catalog/models"
	"product-catalog/utils"
)

const CloudinaryHost = "res.cloudinary.com"

// ImageResolver turns stored image references into URLs a client can fetch
// and tells the cleanup path who owns each reference.
type ImageResolver struct {
	staticPrefix  string
	cloudHosts    []string
	cloudPrefixes []string
	forceHTTPS    bool
}

func NewImageResolver(cfg *config.Config) *ImageResolver {
	prefix := strings.Trim(cfg.StaticPrefix, "/")
	if prefix == "" {
		prefix = "uploads"
	}

	r := &ImageResolver{
		staticPrefix: "/" + prefix,
		cloudHosts:   []string{CloudinaryHost},
		forceHTTPS:   cfg.ForceHTTPS,
	}
	if base := cfg.MinioPublicBase(); base != "" && cfg.MinioBucket != "" {
		r.cloudPrefixes = append(r.cloudPrefixes, base+"/"+cfg.MinioBucket+"/")
	}
	return r
}

// Resolve never fails: anything it cannot interpret is returned as given.
func (r *ImageResolver) Resolve(ref, baseURL string) string {
	switch {
	case ref == "":
		return ""
	case isInline(ref):
		return ref
	case isAbsolute(ref):
		if r.forceHTTPS && hasPrefixFold(ref, "http://") {
			return "https://" + ref[len("http://"):]
		}
		return ref
	}

	rel := utils.TrimStaticPrefix(ref, r.staticPrefix)
	return strings.TrimRight(baseURL, "/") + r.staticPrefix + "/" + rel
}

func (r *ImageResolver) ResolveAll(refs []string, baseURL string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, r.Resolve(ref, baseURL))
	}
	return out
}

func (r *ImageResolver) Classify(ref string) models.ImageKind {
	switch {
	case isInline(ref):
		return models.ImageInline
	case isAbsolute(ref):
		if r.isCloud(ref) {
			return models.ImageCloud
		}
		return models.ImageExternal
	default:
		return models.ImageLocal
	}
}

func (r *ImageResolver) isCloud(ref string) bool {
	for _, prefix := range r.cloudPrefixes {
		if hasPrefixFold(ref, prefix) {
			return true
		}
	}

	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range r.cloudHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// IsExternalLink reports whether s is usable as a caller-supplied image
// link: an absolute http(s) URL with a host.
func IsExternalLink(s string) bool {
	if !isAbsolute(s) {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}

var (
	versionSegment   = regexp.MustCompile(`^v\d+$`)
	transformSegment = regexp.MustCompile(`^[a-z]{1,3}_[^,/]+(,[a-z]{1,3}_[^,/]+)*$`)
)

// CloudinaryPublicID extracts the public id of a Cloudinary delivery URL:
// the path after /upload/ with transformation and version segments dropped
// and the extension removed. It returns "" for anything else.
func CloudinaryPublicID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	const marker = "/upload/"
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return ""
	}
	segs := strings.Split(u.Path[idx+len(marker):], "/")

	cut := -1
	for i, s := range segs {
		if versionSegment.MatchString(s) {
			cut = i
			break
		}
	}
	if cut >= 0 {
		segs = segs[cut+1:]
	} else {
		for len(segs) > 1 && transformSegment.MatchString(segs[0]) {
			segs = segs[1:]
		}
	}

	id := strings.Join(segs, "/")
	return strings.TrimSuffix(id, path.Ext(id))
}

func isInline(ref string) bool {
	return hasPrefixFold(ref, "data:")
}

func isAbsolute(ref string) bool {
	return hasPrefixFold(ref, "http://") || hasPrefixFold(ref, "https://")
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
