package services

import (
	"care4pets/internal/apperrors"
	"care4pets/internal/models"
	"care4pets/internal/repositories"

	"go.uber.org/zap"
)

// ProductService handles business logic related to products.
type ProductService struct {
	productRepo repositories.ProductRepository
	log         *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, log *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, log: log}
}

// ListProducts returns one page of the catalog.
func (s *ProductService) ListProducts(filter repositories.ProductFilter) ([]models.Product, int64, error) {
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, 0, repoError(err, "Products not found")
	}
	return products, total, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, repoError(err, "Product not found")
	}
	return product, nil
}

// CreateProduct adds a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := checkSalePrice(product); err != nil {
		return err
	}
	if err := s.productRepo.Create(product); err != nil {
		return repoError(err, "Product not found")
	}
	s.log.Info("Product created", zap.String("product_id", product.ID))
	return nil
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := checkSalePrice(product); err != nil {
		return err
	}
	if err := s.productRepo.Update(product); err != nil {
		return repoError(err, "Product not found")
	}
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.productRepo.Delete(id); err != nil {
		return repoError(err, "Product not found")
	}
	s.log.Info("Product deleted", zap.String("product_id", id))
	return nil
}

func checkSalePrice(product *models.Product) error {
	if product.SalePrice > 0 && product.SalePrice >= product.Price {
		return apperrors.Validation(map[string]string{"salePrice": "Sale price must be lower than price"})
	}
	return nil
}
