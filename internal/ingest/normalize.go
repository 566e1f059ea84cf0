package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"reports/models"
)

// ErrMissingOrderID aborts a whole file: the order identifier is the
// replace key, so a row without one cannot be reconciled.
var ErrMissingOrderID = errors.New("row is missing amazon-order-id")

// ErrMissingLastUpdated aborts a whole file: the last-updated timestamp is
// the only other mandatory field.
var ErrMissingLastUpdated = errors.New("row is missing last-updated-date")

// ParseReport reads a tab-delimited order export and returns fully
// normalized order lines. Individual malformed cells become absent values;
// a missing mandatory field fails the whole file before any store access.
func ParseReport(path string) ([]models.OrderLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("report %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var lines []models.OrderLine
	for rowNum := 2; ; rowNum++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read report row %d: %w", rowNum, err)
		}

		line, err := normalizeRow(cols, record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// normalizeRow coerces one raw record into a typed order line. Any column
// may be absent from the export; absence is not an error.
func normalizeRow(cols map[string]int, record []string) (models.OrderLine, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	orderID := strings.TrimSpace(cell("amazon-order-id"))
	if orderID == "" {
		return models.OrderLine{}, ErrMissingOrderID
	}

	lastUpdated := toTimestamp(cell("last-updated-date"))
	if lastUpdated == nil {
		return models.OrderLine{}, ErrMissingLastUpdated
	}

	return models.OrderLine{
		AmazonOrderID:   orderID,
		MerchantOrderID: toString(cell("merchant-order-id")),
		PurchaseDate:    toTimestamp(cell("purchase-date")),
		LastUpdatedDate: *lastUpdated,

		OrderStatus:        toString(cell("order-status")),
		FulfillmentChannel: toString(cell("fulfillment-channel")),
		SalesChannel:       toString(cell("sales-channel")),
		OrderChannel:       toString(cell("order-channel")),
		URL:                toString(cell("url")),
		ShipServiceLevel:   toString(cell("ship-service-level")),

		ProductName: toString(cell("product-name")),
		SKU:         toString(cell("sku")),
		ASIN:        toString(cell("asin")),
		ItemStatus:  toString(cell("item-status")),
		Quantity:    toInt(cell("quantity")),
		Currency:    toString(cell("currency")),

		ItemPrice:             toFloat(cell("item-price")),
		ItemTax:               toFloat(cell("item-tax")),
		ShippingPrice:         toFloat(cell("shipping-price")),
		ShippingTax:           toFloat(cell("shipping-tax")),
		GiftWrapPrice:         toFloat(cell("gift-wrap-price")),
		GiftWrapTax:           toFloat(cell("gift-wrap-tax")),
		ItemPromotionDiscount: toFloat(cell("item-promotion-discount")),
		ShipPromotionDiscount: toFloat(cell("ship-promotion-discount")),

		ShipCity:       toString(cell("ship-city")),
		ShipState:      toString(cell("ship-state")),
		ShipPostalCode: toString(cell("ship-postal-code")),
		ShipCountry:    toString(cell("ship-country")),

		PromotionIDs:    toString(cell("promotion-ids")),
		IsBusinessOrder: toBusinessOrder(cell("is-business-order")),

		PurchaseOrderNumber:       toString(cell("purchase-order-number")),
		PriceDesignation:          toString(cell("price-designation")),
		BuyerIdentificationNumber: toString(cell("buyer-identification-number")),
		BuyerIdentificationType:   toString(cell("buyer-identification-type")),
	}, nil
}

func toString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

func toFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

// toTimestamp normalizes an ISO-8601 timestamp (Z or offset suffix) to
// second precision. Empty or unparseable values are absent, not errors.
func toTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.Truncate(time.Second)
	return &t
}

// toBusinessOrder is three-valued: "true" means business order, any other
// non-empty value means not, empty means unknown.
func toBusinessOrder(s string) *int {
	if s == "" {
		return nil
	}
	v := 0
	if s == "true" {
		v = 1
	}
	return &v
}
