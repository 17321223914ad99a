package service

import (
	"context"
	"strings"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/repository"
	pkgerrors "go-warehouse-orders/pkg/errors"
	"go-warehouse-orders/pkg/logger"
	"go-warehouse-orders/pkg/metrics"
	"go-warehouse-orders/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultProductLimit   = 100
	maxProductLimit       = 500
	defaultCatalogueLimit = 50
	maxCatalogueLimit     = 100
	defaultLowStockLimit  = 20
	defaultMovementLimit  = 20
	maxMovementLimit      = 200
)

type ProductRequest struct {
	SKU      string `json:"sku" validate:"trimmed_required,max=50"`
	Name     string `json:"product_name" validate:"trimmed_required,max=255"`
	Category string `json:"category" validate:"max=100"`
	Brand    string `json:"brand" validate:"max=100"`
	Supplier string `json:"supplier" validate:"max=255"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	Unit     string `json:"unit" validate:"max=20"`

	Zone  string `json:"zone" validate:"trimmed_required,max=5"`
	Aisle int    `json:"aisle" validate:"gte=1,lte=99"`
	Rack  int    `json:"rack" validate:"gte=1,lte=99"`
	Shelf int    `json:"shelf" validate:"gte=1,lte=9"`
	Bin   int    `json:"bin" validate:"gte=1,lte=99"`

	// QuantityAvailable is the opening stock on create. On update a
	// difference is applied through the stock ledger as a manual adjustment.
	QuantityAvailable int `json:"quantity_available" validate:"gte=0"`
	ReorderLevel      int `json:"reorder_level" validate:"gte=0"`

	SellingPrice  decimal.Decimal `json:"selling_price"`
	MRP           decimal.Decimal `json:"mrp"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
}

type StockAdjustmentRequest struct {
	Quantity int    `json:"quantity" validate:"ne=0"`
	Reason   string `json:"reason" validate:"max=1000"`
}

type ProductListFilter struct {
	Search   string
	Category string
	Zone     string
	LowStock bool
	Limit    int
	Skip     int
}

type ProductPage struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, actor model.Actor, req ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor model.Actor, id uuid.UUID, req ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor model.Actor, id uuid.UUID) error
	AdjustStock(ctx context.Context, actor model.Actor, id uuid.UUID, req StockAdjustmentRequest) (*model.Product, error)

	ListProducts(ctx context.Context, filter ProductListFilter) (*ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Zones(ctx context.Context) ([]string, error)
	LowStock(ctx context.Context, limit int) ([]model.Product, error)
	RecentMovements(ctx context.Context, sku string, limit int) ([]model.StockMovement, error)

	PublicCatalogue(ctx context.Context, filter ProductListFilter) ([]model.PublicProduct, error)
}

type productService struct {
	db        *gorm.DB
	products  repository.ProductRepository
	ledger    repository.StockLedger
	movements repository.MovementRepository
	log       *logger.Logger
	metrics   *metrics.OrderMetrics
}

func NewProductService(db *gorm.DB, products repository.ProductRepository, ledger repository.StockLedger, movements repository.MovementRepository, log *logger.Logger, m *metrics.OrderMetrics) ProductService {
	if log == nil {
		log = logger.Nop()
	}
	return &productService{
		db:        db,
		products:  products,
		ledger:    ledger,
		movements: movements,
		log:       log,
		metrics:   m,
	}
}

func validateProduct(req *ProductRequest) error {
	if err := validator.Validate(req); err != nil {
		return err
	}
	for field, value := range map[string]decimal.Decimal{
		"selling_price":  req.SellingPrice,
		"mrp":            req.MRP,
		"gst_percentage": req.GSTPercentage,
	} {
		if value.IsNegative() {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "%s cannot be negative", field)
		}
	}
	return nil
}

func (req *ProductRequest) apply(product *model.Product) {
	product.SKU = strings.TrimSpace(req.SKU)
	product.Name = strings.TrimSpace(req.Name)
	product.Category = strings.TrimSpace(req.Category)
	product.Brand = req.Brand
	product.Supplier = req.Supplier
	product.ImageURL = req.ImageURL
	product.Unit = req.Unit
	if product.Unit == "" {
		product.Unit = "piece"
	}
	product.Zone = strings.ToUpper(strings.TrimSpace(req.Zone))
	product.Aisle = req.Aisle
	product.Rack = req.Rack
	product.Shelf = req.Shelf
	product.Bin = req.Bin
	product.ReorderLevel = req.ReorderLevel
	product.SellingPrice = req.SellingPrice
	product.MRP = req.MRP
	product.GSTPercentage = req.GSTPercentage
	product.RefreshLocationCode()
}

func (s *productService) CreateProduct(ctx context.Context, actor model.Actor, req ProductRequest) (*model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateProduct(&req); err != nil {
		return nil, err
	}

	product := &model.Product{QuantityAvailable: req.QuantityAvailable}
	req.apply(product)
	product.CreatedBy = actor.ID.String()
	product.UpdatedBy = actor.ID.String()

	if err := s.products.Create(ctx, product); err != nil {
		if pkgerrors.Is(mapStorageError(err, "product"), pkgerrors.CodeConflict) {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "SKU %s already exists", product.SKU)
		}
		return nil, mapStorageError(err, "product")
	}

	s.log.Info(s.log.WithField(ctx, "sku", product.SKU), "product created")
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, actor model.Actor, id uuid.UUID, req ProductRequest) (*model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateProduct(&req); err != nil {
		return nil, err
	}

	var applied []model.MovementType
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		product, err := products.FindByID(ctx, id)
		if err != nil {
			return mapStorageError(err, "product")
		}
		oldSKU := product.SKU
		req.apply(product)
		product.UpdatedBy = actor.ID.String()

		if err := products.Update(ctx, product); err != nil {
			if pkgerrors.Is(mapStorageError(err, "product"), pkgerrors.CodeConflict) {
				return pkgerrors.Newf(pkgerrors.CodeConflict, "SKU %s already exists", product.SKU)
			}
			return mapStorageError(err, "product")
		}
		if oldSKU != product.SKU {
			s.log.Warn(s.log.WithFields(ctx, map[string]any{"old_sku": oldSKU, "sku": product.SKU}),
				"product SKU changed, existing order lines keep the old SKU")
		}

		if delta := req.QuantityAvailable - product.QuantityAvailable; delta != 0 {
			if err := s.adjust(ctx, tx, actor, product.SKU, delta, "product edit"); err != nil {
				return err
			}
			applied = append(applied, model.MovementManualAdjustment)
		}
		return nil
	})
	if err != nil {
		return nil, mapStorageError(err, "product")
	}
	for _, kind := range applied {
		s.metrics.IncMovement(string(kind))
	}

	s.log.Info(s.log.WithField(ctx, "product_id", id.String()), "product updated")
	return s.GetProduct(ctx, id)
}

func (s *productService) DeleteProduct(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return mapStorageError(err, "product")
	}
	s.log.Info(s.log.WithField(ctx, "product_id", id.String()), "product deleted")
	return nil
}

// AdjustStock applies a signed manual correction. Stock never goes below zero.
func (s *productService) AdjustStock(ctx context.Context, actor model.Actor, id uuid.UUID, req StockAdjustmentRequest) (*model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.products.WithTx(tx).FindByID(ctx, id)
		if err != nil {
			return mapStorageError(err, "product")
		}
		return s.adjust(ctx, tx, actor, product.SKU, req.Quantity, req.Reason)
	})
	if err != nil {
		return nil, mapStorageError(err, "product")
	}
	s.metrics.IncMovement(string(model.MovementManualAdjustment))

	s.log.Info(s.log.WithFields(ctx, map[string]any{"product_id": id.String(), "quantity": req.Quantity}), "stock adjusted")
	return s.GetProduct(ctx, id)
}

func (s *productService) adjust(ctx context.Context, tx *gorm.DB, actor model.Actor, sku string, delta int, note string) error {
	ledger := s.ledger.WithTx(tx)
	var err error
	if delta > 0 {
		err = ledger.Restore(ctx, sku, delta)
	} else {
		err = ledger.Deduct(ctx, sku, -delta)
	}
	if err != nil {
		return err
	}
	movement := &model.StockMovement{
		SKU:         sku,
		ChangeType:  model.MovementManualAdjustment,
		Quantity:    delta,
		Note:        note,
		PerformedBy: actor.ID,
	}
	if err := s.movements.WithTx(tx).Record(ctx, movement); err != nil {
		return mapStorageError(err, "stock movement")
	}
	return nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func (f ProductListFilter) toRepo(def, max int, public bool) repository.ProductFilter {
	skip := f.Skip
	if skip < 0 {
		skip = 0
	}
	return repository.ProductFilter{
		Search:   f.Search,
		Category: f.Category,
		Zone:     f.Zone,
		LowStock: f.LowStock,
		Public:   public,
		Limit:    clampLimit(f.Limit, def, max),
		Skip:     skip,
	}
}

func (s *productService) ListProducts(ctx context.Context, filter ProductListFilter) (*ProductPage, error) {
	products, total, err := s.products.FindAll(ctx, filter.toRepo(defaultProductLimit, maxProductLimit, false))
	if err != nil {
		return nil, mapStorageError(err, "products")
	}
	if products == nil {
		products = []model.Product{}
	}
	return &ProductPage{Items: products, Total: total}, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, mapStorageError(err, "product")
	}
	return product, nil
}

func (s *productService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.products.Categories(ctx)
	if err != nil {
		return nil, mapStorageError(err, "categories")
	}
	return categories, nil
}

func (s *productService) Zones(ctx context.Context) ([]string, error) {
	zones, err := s.products.Zones(ctx)
	if err != nil {
		return nil, mapStorageError(err, "zones")
	}
	return zones, nil
}

func (s *productService) LowStock(ctx context.Context, limit int) ([]model.Product, error) {
	products, _, err := s.products.FindAll(ctx, repository.ProductFilter{
		LowStock: true,
		Limit:    clampLimit(limit, defaultLowStockLimit, maxProductLimit),
	})
	if err != nil {
		return nil, mapStorageError(err, "products")
	}
	return products, nil
}

func (s *productService) RecentMovements(ctx context.Context, sku string, limit int) ([]model.StockMovement, error) {
	movements, err := s.movements.ListRecent(ctx, strings.TrimSpace(sku), clampLimit(limit, defaultMovementLimit, maxMovementLimit))
	if err != nil {
		return nil, mapStorageError(err, "stock movements")
	}
	return movements, nil
}

// PublicCatalogue lists products without stock figures or locations.
func (s *productService) PublicCatalogue(ctx context.Context, filter ProductListFilter) ([]model.PublicProduct, error) {
	filter.Zone = ""
	filter.LowStock = false
	products, _, err := s.products.FindAll(ctx, filter.toRepo(defaultCatalogueLimit, maxCatalogueLimit, true))
	if err != nil {
		return nil, mapStorageError(err, "products")
	}
	catalogue := make([]model.PublicProduct, 0, len(products))
	for i := range products {
		catalogue = append(catalogue, products[i].ToPublic())
	}
	return catalogue, nil
}
