package syncapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/shopsync/internal/domain/catalog"
	"github.com/erp/shopsync/internal/domain/integration"
	"github.com/erp/shopsync/internal/domain/shared"
)

const itemCodePrefix = "SHOP-"

// gidPrefix is the GraphQL global id prefix on product ids in bulk exports;
// REST endpoints use the bare numeric id.
const gidPrefix = "gid://shopify/"

// ProductSyncService is the default integration.ProductSyncer: it fetches
// the product payload from the platform and maps it into catalog Item
// writes plus EcommerceItem link rows. Unique-constraint conflicts on the
// link rows surface as integration.ErrItemAlreadySynced.
type ProductSyncService struct {
	fetcher integration.ProductFetcher
	items   catalog.ItemRepository
	links   catalog.EcommerceItemRepository
	logger  *zap.Logger
}

// NewProductSyncService creates a new ProductSyncService
func NewProductSyncService(
	fetcher integration.ProductFetcher,
	items catalog.ItemRepository,
	links catalog.EcommerceItemRepository,
	logger *zap.Logger,
) *ProductSyncService {
	return &ProductSyncService{
		fetcher: fetcher,
		items:   items,
		links:   links,
		logger:  logger,
	}
}

// SyncProduct imports one product and all its variants
func (s *ProductSyncService) SyncProduct(ctx context.Context, productID string) error {
	legacy := legacyID(productID)
	if legacy == "" {
		return fmt.Errorf("%w: empty product id", shared.ErrInvalidInput)
	}

	product, err := s.fetcher.FetchProduct(ctx, legacy)
	if err != nil {
		return err
	}

	template, err := s.syncTemplate(ctx, legacy, product)
	if err != nil {
		return err
	}

	for _, variant := range variants(product) {
		if err := s.syncVariantRecord(ctx, legacy, template, variant, optionNames(product)); err != nil {
			return err
		}
	}
	return nil
}

// SyncVariant imports one specific variant of a product
func (s *ProductSyncService) SyncVariant(ctx context.Context, productID, variantID string) error {
	legacy := legacyID(productID)
	product, err := s.fetcher.FetchProduct(ctx, legacy)
	if err != nil {
		return err
	}

	template, err := s.syncTemplate(ctx, legacy, product)
	if err != nil {
		return err
	}

	wantID := legacyID(variantID)
	for _, variant := range variants(product) {
		if legacyID(variant.ID()) != wantID {
			continue
		}
		return s.syncVariantRecord(ctx, legacy, template, variant, optionNames(product))
	}
	return fmt.Errorf("%w: variant %s of product %s", shared.ErrNotFound, variantID, productID)
}

// syncTemplate writes the template item and its link row
func (s *ProductSyncService) syncTemplate(ctx context.Context, legacy string, product integration.Record) (*catalog.Item, error) {
	title := stringField(product, "title")
	if title == "" {
		title = "Shopify Product " + legacy
	}

	item, err := catalog.NewItem(itemCodePrefix+legacy, title)
	if err != nil {
		return nil, err
	}
	item.Description = stringField(product, "description", "body_html")
	item.ItemGroup = stringField(product, "productType", "product_type")
	item.Brand = stringField(product, "vendor")
	item.HasVariants = hasVariants(product)

	if vs := variants(product); len(vs) > 0 {
		item.SellingPrice = decimalField(vs[0], "price")
		item.Weight = decimalField(vs[0], "weight")
		item.WeightUnit = catalog.NormalizeWeightUnit(stringField(vs[0], "weightUnit", "weight_unit"))
		if !item.HasVariants {
			item.SKU = stringField(vs[0], "sku")
		}
	}

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}

	link, err := catalog.NewEcommerceItem(catalog.IntegrationShopify, legacy, item.Code)
	if err != nil {
		return nil, err
	}
	link.SKU = item.SKU
	if err := s.saveLink(ctx, link); err != nil {
		return nil, err
	}

	return item, nil
}

// syncVariantRecord writes one variant item and its link row
func (s *ProductSyncService) syncVariantRecord(
	ctx context.Context,
	productLegacy string,
	template *catalog.Item,
	variant integration.Record,
	options []string,
) error {
	if !template.HasVariants {
		// Single-variant products are fully represented by the template.
		return nil
	}

	variantLegacy := legacyID(variant.ID())
	code := fmt.Sprintf("%s%s-%s", itemCodePrefix, productLegacy, variantLegacy)

	name := template.Name
	if vt := stringField(variant, "title"); vt != "" {
		name = fmt.Sprintf("%s - %s", template.Name, vt)
	}

	item, err := catalog.NewItem(code, name)
	if err != nil {
		return err
	}
	item.VariantOf = template.Code
	item.SKU = stringField(variant, "sku")
	item.SellingPrice = decimalField(variant, "price")
	item.Weight = decimalField(variant, "weight")
	item.WeightUnit = catalog.NormalizeWeightUnit(stringField(variant, "weightUnit", "weight_unit"))

	attrs, err := variantAttributes(variant, options)
	if err != nil {
		return err
	}
	item.Attributes = attrs

	if err := s.items.Save(ctx, item); err != nil {
		return err
	}

	link, err := catalog.NewEcommerceItem(catalog.IntegrationShopify, productLegacy, item.Code)
	if err != nil {
		return err
	}
	link.VariantID = variantLegacy
	link.VariantOf = template.Code
	link.SKU = item.SKU
	return s.saveLink(ctx, link)
}

// saveLink persists a link row, translating duplicates into the
// duplicate-skip error kind the sync loops understand
func (s *ProductSyncService) saveLink(ctx context.Context, link *catalog.EcommerceItem) error {
	err := s.links.Save(ctx, link)
	if errors.Is(err, shared.ErrAlreadyExists) {
		return fmt.Errorf("%w: %s/%s", integration.ErrItemAlreadySynced,
			link.IntegrationItemCode, link.VariantID)
	}
	return err
}

// ---------------------------------------------------------------------------
// Record field helpers
// ---------------------------------------------------------------------------

// legacyID strips the GraphQL gid prefix, leaving the bare id. REST ids
// pass through unchanged.
func legacyID(id string) string {
	if !strings.HasPrefix(id, gidPrefix) {
		return id
	}
	trimmed := strings.TrimPrefix(id, gidPrefix)
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// stringField returns the first present non-empty string among keys
func stringField(record integration.Record, keys ...string) string {
	for _, key := range keys {
		if value, ok := record[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

// decimalField parses a numeric field that may arrive as string or number
func decimalField(record integration.Record, key string) decimal.Decimal {
	switch value := record[key].(type) {
	case string:
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(value)
	case json.Number:
		if d, err := decimal.NewFromString(value.String()); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// variants returns the variant records of a product, handling both the
// bulk-export shape and the REST shape
func variants(product integration.Record) []integration.Record {
	raw, ok := product["variants"].([]any)
	if !ok {
		return nil
	}
	result := make([]integration.Record, 0, len(raw))
	for _, v := range raw {
		if fields, ok := v.(map[string]any); ok {
			result = append(result, integration.Record(fields))
		}
	}
	return result
}

// hasVariants reports whether the product has real variants rather than the
// platform's implicit default variant
func hasVariants(product integration.Record) bool {
	vs := variants(product)
	if len(vs) > 1 {
		return true
	}
	if len(vs) == 1 {
		title := stringField(vs[0], "title")
		return title != "" && title != "Default Title"
	}
	return false
}

// optionNames returns the product's option names in declaration order
func optionNames(product integration.Record) []string {
	raw, ok := product["options"].([]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(raw))
	for _, o := range raw {
		if fields, ok := o.(map[string]any); ok {
			if name, ok := fields["name"].(string); ok {
				names = append(names, name)
			}
		}
	}
	return names
}

// variantAttributes maps option1..option3 onto the product's option names
// and encodes them as the item's attributes JSON
func variantAttributes(variant integration.Record, options []string) (string, error) {
	attrs := make(map[string]string)
	for i, key := range []string{"option1", "option2", "option3"} {
		value := stringField(variant, key)
		if value == "" {
			continue
		}
		name := fmt.Sprintf("Option %d", i+1)
		if i < len(options) {
			name = options[i]
		}
		attrs[name] = value
	}
	if len(attrs) == 0 {
		return "{}", nil
	}
	encoded, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("failed to encode variant attributes: %w", err)
	}
	return string(encoded), nil
}
