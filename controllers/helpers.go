package controllers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"product-catalog/config"
	"product-catalog/libs"
	"product-catalog/models"
	"product-catalog/services"
)

const (
	fileField  = "image"
	linksField = "linkImages"
)

var scalarFields = []string{
	models.FieldName,
	models.FieldTitle,
	models.FieldDes,
	models.FieldRating,
	models.FieldPrice,
	models.FieldWeight,
	models.FieldTag,
	models.FieldCategory,
}

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	return d
}

// productForm is a parsed add/edit request. Close releases the opened
// file parts.
type productForm struct {
	Input models.ProductInput
	Files []models.UploadedFile
	Links []string

	opened []multipart.File
}

func (f *productForm) Close() {
	for _, file := range f.opened {
		file.Close()
	}
}

// parseProductForm reads a multipart or urlencoded body.
func parseProductForm(c *gin.Context, cfg *config.Config) (*productForm, error) {
	limit := cfg.MaxUploadSize*int64(cfg.MaxUploadFiles) + 1<<20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	var files []*multipart.FileHeader
	err := c.Request.ParseMultipartForm(32 << 20)
	switch {
	case err == nil:
		files = c.Request.MultipartForm.File[fileField]
	case errors.Is(err, http.ErrNotMultipart):
		if err := c.Request.ParseForm(); err != nil {
			return nil, formError(err)
		}
	default:
		return nil, formError(err)
	}

	values := c.Request.PostForm
	form := &productForm{}

	if err := formDecoder.Decode(&form.Input, values); err != nil {
		return nil, services.NewValidationError("Invalid form fields: " + err.Error())
	}
	form.Input.Present = map[string]bool{}
	form.Input.Attributes = map[string]string{}
	for _, key := range scalarFields {
		if _, ok := values[key]; ok {
			form.Input.Present[key] = true
		}
	}
	for _, key := range models.AttributeFields {
		if vs, ok := values[key]; ok {
			form.Input.Present[key] = true
			form.Input.Attributes[key] = firstValue(vs)
		}
	}

	form.Links, err = parseLinks(values[linksField])
	if err != nil {
		return nil, err
	}

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			form.Close()
			return nil, errors.Wrap(err, "open upload")
		}
		form.opened = append(form.opened, file)
		form.Files = append(form.Files, models.UploadedFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		})
	}
	return form, nil
}

// parseLinks accepts each linkImages value as a JSON array, a JSON string
// or a bare http(s) URL. Anything else is rejected.
func parseLinks(raw []string) ([]string, error) {
	var links []string
	for _, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		var decoded models.StringList
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			links = append(links, decoded...)
			continue
		}
		if !libs.IsExternalLink(value) {
			return nil, services.NewValidationError("linkImages must be a JSON array of URLs")
		}
		links = append(links, value)
	}
	return links, nil
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return services.NewValidationError(fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
	}
	return services.NewValidationError("Malformed form body: " + err.Error())
}

func firstValue(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// baseURL is the origin resolved image URLs are built on.
func baseURL(c *gin.Context, cfg *config.Config) string {
	if cfg.PublicBaseURL != "" {
		return cfg.PublicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}

// respondError maps service errors to status codes. failMessage is used
// for internal failures only.
func respondError(c *gin.Context, cfg *config.Config, err error, failMessage string) {
	var invalid *services.ValidationError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: invalid.Message,
			Error:   err.Error(),
		})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Product not found"})
	default:
		_ = c.Error(err)
		zap.L().Error(failMessage, zap.Error(err), zap.String("path", c.Request.URL.Path))

		resp := models.ErrorResponse{Message: failMessage, Error: errors.Cause(err).Error()}
		if !cfg.IsProduction() {
			resp.Stack = fmt.Sprintf("%+v", err)
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}
