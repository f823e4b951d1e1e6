package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kithly/kithly-backend/models"
	"github.com/kithly/kithly-backend/repository"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awspkg "github.com/kithly/kithly-backend/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateProductRequest is the owner payload for adding a product.
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	PriceNgwee  int64  `json:"price_ngwee" binding:"required,min=0"`
	IsAvailable *bool  `json:"is_available"`
}

// UpdateProductRequest carries owner-editable product fields. The owning
// shop is immutable and not part of the payload.
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	PriceNgwee  int64  `json:"price_ngwee" binding:"min=0"`
	IsAvailable *bool  `json:"is_available"`
}

// PresignedUpload is a short-lived direct-upload grant for product images.
type PresignedUpload struct {
	UploadURL string            `json:"upload_url"`
	PublicURL string            `json:"public_url"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// ProductService serves catalog reads and owner-scoped catalog writes.
type ProductService struct {
	productRepo repository.ProductRepository
	shopService *ShopService
	awsCfg      *sdkaws.Config
	s3Bucket    string
	logger      *zap.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	shopService *ShopService,
	awsCfg *sdkaws.Config,
	s3Bucket string,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		shopService: shopService,
		awsCfg:      awsCfg,
		s3Bucket:    s3Bucket,
		logger:      logger,
	}
}

// ListShopProducts lists a shop's products. Buyers see available items
// only; the owner sees everything.
func (s *ProductService) ListShopProducts(ctx context.Context, shopID uuid.UUID, includeUnavailable bool) ([]models.Product, *ServiceError) {
	products, err := s.productRepo.FindByShop(ctx, shopID, !includeUnavailable)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to fetch products")
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(404, KindNotFound, "Product not found")
		}
		s.logger.Error("Product lookup failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to fetch product")
	}
	return product, nil
}

// CreateProduct adds a product to the caller's shop.
func (s *ProductService) CreateProduct(ctx context.Context, ownerUserID uuid.UUID, req *CreateProductRequest) (*models.Product, *ServiceError) {
	shop, serr := s.shopService.GetOwnedShop(ctx, ownerUserID)
	if serr != nil {
		return nil, serr
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	product := &models.Product{
		ShopID:      shop.ID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PriceNgwee:  req.PriceNgwee,
		IsAvailable: available,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("Product create failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to create product")
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("shop_id", shop.ID.String()),
	)
	return product, nil
}

// UpdateProduct edits a product in the caller's shop.
func (s *ProductService) UpdateProduct(ctx context.Context, ownerUserID, productID uuid.UUID, req *UpdateProductRequest) (*models.Product, *ServiceError) {
	product, serr := s.ownedProduct(ctx, ownerUserID, productID)
	if serr != nil {
		return nil, serr
	}

	product.Name = req.Name
	product.Description = req.Description
	product.ImageURL = req.ImageURL
	product.PriceNgwee = req.PriceNgwee
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Product update failed", zap.Error(err))
		return nil, newServiceError(500, KindInternal, "Failed to update product")
	}
	return product, nil
}

// DeleteProduct removes a product from the caller's shop unless an order
// references it.
func (s *ProductService) DeleteProduct(ctx context.Context, ownerUserID, productID uuid.UUID) *ServiceError {
	product, serr := s.ownedProduct(ctx, ownerUserID, productID)
	if serr != nil {
		return serr
	}

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, repository.ErrProductInUse) {
			return newServiceError(409, KindProductInUse, "Product appears in existing orders; mark it unavailable instead")
		}
		s.logger.Error("Product delete failed", zap.Error(err))
		return newServiceError(500, KindInternal, "Failed to delete product")
	}

	s.logger.Info("Product deleted", zap.String("product_id", productID.String()))
	return nil
}

// PresignImageUpload grants a direct S3 PUT for a product or logo image.
func (s *ProductService) PresignImageUpload(ctx context.Context, ownerUserID uuid.UUID, filename, contentType string) (*PresignedUpload, *ServiceError) {
	shop, serr := s.shopService.GetOwnedShop(ctx, ownerUserID)
	if serr != nil {
		return nil, serr
	}
	if s.awsCfg == nil || s.s3Bucket == "" {
		return nil, newServiceError(503, KindInternal, "Image uploads are not configured")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, newServiceError(400, KindInvalidInput, "Unsupported image type")
	}

	key := fmt.Sprintf("shops/%s/images/%s%s", shop.ID, uuid.New(), ext)
	url, headers, err := awspkg.GeneratePresignedPutURL(ctx, *s.awsCfg, s.s3Bucket, key, contentType, 900)
	if err != nil {
		s.logger.Error("Presign failed", zap.Error(err))
		return nil, newServiceError(502, KindInternal, "Failed to create upload URL")
	}

	return &PresignedUpload{
		UploadURL: url,
		PublicURL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Bucket, key),
		Headers:   headers,
	}, nil
}

func (s *ProductService) ownedProduct(ctx context.Context, ownerUserID, productID uuid.UUID) (*models.Product, *ServiceError) {
	shop, serr := s.shopService.GetOwnedShop(ctx, ownerUserID)
	if serr != nil {
		return nil, serr
	}
	product, serr2 := s.GetProduct(ctx, productID)
	if serr2 != nil {
		return nil, serr2
	}
	if product.ShopID != shop.ID {
		return nil, newServiceError(403, KindForbidden, "Product belongs to a different shop")
	}
	return product, nil
}
