package models

import "time"

// OrderLine is one line item of one order as imported from a seller report.
// All fields except the order identifier and last-updated timestamp may be
// absent in a given export; absent values are nil.
type OrderLine struct {
	ID uint `gorm:"primaryKey" json:"-"`

	AmazonOrderID   string     `gorm:"column:amazon_order_id;not null;index" json:"amazon_order_id"`
	MerchantOrderID *string    `gorm:"column:merchant_order_id" json:"merchant_order_id"`
	PurchaseDate    *time.Time `gorm:"column:purchase_date;index" json:"purchase_date"`
	LastUpdatedDate time.Time  `gorm:"column:last_updated_date;not null" json:"last_updated_date"`

	OrderStatus        *string `gorm:"column:order_status" json:"order_status"`
	FulfillmentChannel *string `gorm:"column:fulfillment_channel" json:"fulfillment_channel"`
	SalesChannel       *string `gorm:"column:sales_channel" json:"sales_channel"`
	OrderChannel       *string `gorm:"column:order_channel" json:"order_channel"`
	URL                *string `gorm:"column:url" json:"url"`
	ShipServiceLevel   *string `gorm:"column:ship_service_level" json:"ship_service_level"`

	ProductName *string `gorm:"column:product_name" json:"product_name"`
	SKU         *string `gorm:"column:sku" json:"sku"`
	ASIN        *string `gorm:"column:asin;index" json:"asin"`
	ItemStatus  *string `gorm:"column:item_status" json:"item_status"`
	Quantity    *int    `gorm:"column:quantity" json:"quantity"`
	Currency    *string `gorm:"column:currency" json:"currency"`

	ItemPrice             *float64 `gorm:"column:item_price" json:"item_price"`
	ItemTax               *float64 `gorm:"column:item_tax" json:"item_tax"`
	ShippingPrice         *float64 `gorm:"column:shipping_price" json:"shipping_price"`
	ShippingTax           *float64 `gorm:"column:shipping_tax" json:"shipping_tax"`
	GiftWrapPrice         *float64 `gorm:"column:gift_wrap_price" json:"gift_wrap_price"`
	GiftWrapTax           *float64 `gorm:"column:gift_wrap_tax" json:"gift_wrap_tax"`
	ItemPromotionDiscount *float64 `gorm:"column:item_promotion_discount" json:"item_promotion_discount"`
	ShipPromotionDiscount *float64 `gorm:"column:ship_promotion_discount" json:"ship_promotion_discount"`

	ShipCity       *string `gorm:"column:ship_city" json:"ship_city"`
	ShipState      *string `gorm:"column:ship_state" json:"ship_state"`
	ShipPostalCode *string `gorm:"column:ship_postal_code" json:"ship_postal_code"`
	ShipCountry    *string `gorm:"column:ship_country" json:"ship_country"`

	PromotionIDs *string `gorm:"column:promotion_ids" json:"promotion_ids"`

	// Three-valued: 1 = business order, 0 = not, nil = unknown.
	IsBusinessOrder *int `gorm:"column:is_business_order" json:"is_business_order"`

	PurchaseOrderNumber       *string `gorm:"column:purchase_order_number" json:"purchase_order_number"`
	PriceDesignation          *string `gorm:"column:price_designation" json:"price_designation"`
	BuyerIdentificationNumber *string `gorm:"column:buyer_identification_number" json:"buyer_identification_number"`
	BuyerIdentificationType   *string `gorm:"column:buyer_identification_type" json:"buyer_identification_type"`
}

func (OrderLine) TableName() string { return "orders" }

// AsinMeta is the product metadata side table, keyed by ASIN. Rows are
// created implicitly by the ingestion backfill (title only) and maintained
// by the metadata CRUD surface afterwards.
type AsinMeta struct {
	ASIN          string   `gorm:"column:asin;primaryKey" json:"asin"`
	TitleOverride *string  `gorm:"column:title_override" json:"title_override"`
	Brand         *string  `gorm:"column:brand" json:"brand"`
	Category      *string  `gorm:"column:category" json:"category"`
	Subcategory   *string  `gorm:"column:subcategory" json:"subcategory"`
	Cost          *float64 `gorm:"column:cost" json:"cost"`
	LaunchDate    *string  `gorm:"column:launch_date" json:"launch_date"`
	Notes         *string  `gorm:"column:notes" json:"notes"`
}

func (AsinMeta) TableName() string { return "asin_meta" }

// ImportRecord is one append-only audit entry per successful ingestion.
type ImportRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OriginalPath string    `gorm:"column:original_path;not null" json:"original_path"`
	ArchivedPath string    `gorm:"column:archived_path;not null" json:"archived_path"`
	ImportedAt   time.Time `gorm:"column:imported_at;not null" json:"imported_at"`
	RowCount     int       `gorm:"column:row_count;not null" json:"row_count"`
	FileSHA256   string    `gorm:"column:file_sha256" json:"file_sha256"`
}

func (ImportRecord) TableName() string { return "imports" }
