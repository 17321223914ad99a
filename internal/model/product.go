package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a stocked SKU with its warehouse address.
type Product struct {
	BaseModel
	SKU      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Name     string `gorm:"type:varchar(255);not null" json:"product_name"`
	Category string `gorm:"type:varchar(100);index" json:"category"`
	Brand    string `gorm:"type:varchar(100)" json:"brand"`
	Supplier string `gorm:"type:varchar(255)" json:"supplier"`
	ImageURL string `gorm:"type:text" json:"image_url"`
	Unit     string `gorm:"type:varchar(20);default:'piece'" json:"unit"`

	// Warehouse address
	Zone         string `gorm:"type:varchar(5);index;not null" json:"zone"`
	Aisle        int    `gorm:"not null" json:"aisle"`
	Rack         int    `gorm:"not null" json:"rack"`
	Shelf        int    `gorm:"not null" json:"shelf"`
	Bin          int    `gorm:"not null" json:"bin"`
	LocationCode string `gorm:"type:varchar(32);index" json:"full_location_code"`

	QuantityAvailable int `gorm:"not null;default:0;check:chk_products_quantity_available,quantity_available >= 0" json:"quantity_available"`
	ReorderLevel      int `gorm:"not null" json:"reorder_level"`

	// Pricing
	SellingPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"selling_price"`
	MRP           decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"mrp"`
	GSTPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:18" json:"gst_percentage"`
}

// GenerateLocationCode composes {Zone}-{Aisle:02}-R{Rack:02}-S{Shelf}-B{Bin:02}, e.g. A-03-R07-S2-B05.
func GenerateLocationCode(zone string, aisle, rack, shelf, bin int) string {
	return fmt.Sprintf("%s-%02d-R%02d-S%d-B%02d", zone, aisle, rack, shelf, bin)
}

// RefreshLocationCode recomputes LocationCode from the address parts.
func (p *Product) RefreshLocationCode() {
	p.LocationCode = GenerateLocationCode(p.Zone, p.Aisle, p.Rack, p.Shelf, p.Bin)
}

func (p *Product) IsLowStock() bool {
	return p.QuantityAvailable <= p.ReorderLevel
}

// PublicProduct is the catalogue view shown without authentication:
// no stock figures and no warehouse location.
type PublicProduct struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"product_name"`
	Category     string          `json:"category"`
	Brand        string          `json:"brand"`
	ImageURL     string          `json:"image_url"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	MRP          decimal.Decimal `json:"mrp"`
	Unit         string          `json:"unit"`
}

func (p *Product) ToPublic() PublicProduct {
	return PublicProduct{
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     p.Category,
		Brand:        p.Brand,
		ImageURL:     p.ImageURL,
		SellingPrice: p.SellingPrice,
		MRP:          p.MRP,
		Unit:         p.Unit,
	}
}
