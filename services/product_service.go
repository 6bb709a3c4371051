package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"product-catalog/config"
	"product-catalog/libs"
	"product-catalog/models"
	"product-catalog/repositories"
)

// ProductService owns the product lifecycle: it decides the image list a
// write ends up with and removes the assets a write leaves behind.
type ProductService struct {
	repo     repositories.ProductRepository
	stores   libs.AssetStores
	resolver *libs.ImageResolver
	cleaner  *assetCleaner
	limits   libs.UploadLimits
	log      *zap.Logger
	now      func() time.Time
}

func NewProductService(
	cfg *config.Config,
	repo repositories.ProductRepository,
	stores libs.AssetStores,
	resolver *libs.ImageResolver,
	log *zap.Logger,
) *ProductService {
	log = log.Named("products")
	return &ProductService{
		repo:     repo,
		stores:   stores,
		resolver: resolver,
		cleaner: &assetCleaner{
			resolver: resolver,
			stores:   stores,
			limit:    cfg.CleanupConcurrency,
			log:      log,
		},
		limits: libs.UploadLimits{
			MaxSize:  cfg.MaxUploadSize,
			MaxFiles: cfg.MaxUploadFiles,
		},
		log: log,
		now: time.Now,
	}
}

func (s *ProductService) Create(ctx context.Context, in models.ProductInput, files []models.UploadedFile, links []string) (*models.Product, error) {
	product := in.NewProduct()
	if product.Name == "" {
		return nil, NewValidationError("Product name is required")
	}

	saved, err := s.saveUploads(ctx, files)
	if err != nil {
		return nil, err
	}

	product.Images = append(product.Images, saved...)
	product.Images = append(product.Images, s.acceptLinks(links)...)
	if len(product.Images) == 0 {
		return nil, NewValidationError("At least one image or image link is required")
	}

	now := s.now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.repo.Insert(ctx, &product); err != nil {
		s.cleanup(ctx, saved)
		return nil, errors.Wrap(err, "insert product")
	}

	s.log.Info("Product created",
		zap.String("id", product.ID),
		zap.Int("uploads", len(saved)),
		zap.Int("images", len(product.Images)),
	)
	return &product, nil
}

func (s *ProductService) List(ctx context.Context, newestFirst bool) ([]models.Product, error) {
	products, err := s.repo.FindAll(ctx, newestFirst)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "get product")
	}
	return product, nil
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.repo.FindByCategory(ctx, category)
	if err != nil {
		return nil, errors.Wrap(err, "list category")
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Related lists the products sharing the category of id, id included.
func (s *ProductService) Related(ctx context.Context, id string) ([]models.Product, error) {
	seed, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ListByCategory(ctx, seed.Category)
}

// Categories counts products per non-empty category, sorted by name.
func (s *ProductService) Categories(ctx context.Context) ([]models.CategorySummary, error) {
	products, err := s.List(ctx, false)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, p := range products {
		if p.Category != "" {
			counts[p.Category]++
		}
	}

	out := make([]models.CategorySummary, 0, len(counts))
	for name, n := range counts {
		out = append(out, models.CategorySummary{Name: name, Products: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update applies the sent fields of in. New uploads replace the previous
// image list; links are appended either way.
func (s *ProductService) Update(ctx context.Context, id string, in models.ProductInput, files []models.UploadedFile, links []string) (*models.Product, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "find product")
	}
	if in.Has(models.FieldName) && strings.TrimSpace(in.Name) == "" {
		return nil, NewValidationError("Product name cannot be empty")
	}

	saved, err := s.saveUploads(ctx, files)
	if err != nil {
		return nil, err
	}

	images := models.StringList{}
	if len(saved) > 0 {
		images = append(images, saved...)
	} else {
		images = append(images, existing.Images...)
	}
	images = append(images, s.acceptLinks(links)...)
	if len(images) == 0 {
		s.cleanup(ctx, saved)
		return nil, NewValidationError("At least one image or image link is required")
	}

	next := existing.Clone()
	in.Apply(&next)
	next.Images = images
	next.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		s.cleanup(ctx, saved)
		return nil, s.lookupError(err, "update product")
	}

	orphans := orphaned(s.resolver, existing.Images, updated.Images)
	s.cleanup(ctx, orphans)

	s.log.Info("Product updated",
		zap.String("id", updated.ID),
		zap.Int("uploads", len(saved)),
		zap.Int("orphans", len(orphans)),
	)
	return updated, nil
}

// Delete removes the record first and its owned assets afterwards.
func (s *ProductService) Delete(ctx context.Context, id string) (*models.Product, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, s.lookupError(err, "find product")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "delete product")
	}

	s.cleanup(ctx, deleted.Images)
	s.log.Info("Product deleted", zap.String("id", deleted.ID), zap.Int("images", len(deleted.Images)))
	return deleted, nil
}

// Upload stores one image without attaching it to a product and returns
// its reference.
func (s *ProductService) Upload(ctx context.Context, file models.UploadedFile) (string, error) {
	refs, err := s.saveUploads(ctx, []models.UploadedFile{file})
	if err != nil {
		return "", err
	}
	return refs[0], nil
}

// Resolver is the resolver responses are rendered with.
func (s *ProductService) Resolver() *libs.ImageResolver {
	return s.resolver
}

// Ping reports whether the document store is reachable.
func (s *ProductService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// saveUploads validates every file before storing any, then stores them in
// order. A failed store removes what was already written.
func (s *ProductService) saveUploads(ctx context.Context, files []models.UploadedFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	checked, err := libs.ValidateUploads(files, s.limits)
	if err != nil {
		if libs.IsUploadError(err) {
			return nil, wrapValidation("Invalid upload", err)
		}
		return nil, errors.Wrap(err, "read upload")
	}

	if s.stores.Primary == nil {
		return nil, errors.New("no asset store configured")
	}

	refs := make([]string, 0, len(checked))
	for _, f := range checked {
		ref, err := s.stores.Primary.Save(ctx, f)
		if err != nil {
			s.cleanup(ctx, refs)
			return nil, errors.Wrapf(err, "store %s", f.Filename)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *ProductService) acceptLinks(links []string) []string {
	out := make([]string, 0, len(links))
	for _, link := range links {
		link = strings.TrimSpace(link)
		if !libs.IsExternalLink(link) {
			if link != "" {
				s.log.Debug("Ignoring malformed image link", zap.String("link", link))
			}
			continue
		}
		out = append(out, link)
	}
	return out
}

// cleanup is detached from request cancellation.
func (s *ProductService) cleanup(ctx context.Context, refs []string) {
	if len(refs) == 0 {
		return
	}
	_ = s.cleaner.Cleanup(context.WithoutCancel(ctx), refs)
}

func (s *ProductService) lookupError(err error, msg string) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return ErrProductNotFound
	}
	return errors.Wrap(err, msg)
}
