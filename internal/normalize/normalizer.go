package normalize

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/common"
	"github.com/joseph-ayodele/quotient/internal/entity"
)

// DefaultConfidence is assigned to candidates that carry none.
const DefaultConfidence = 0.5

var errNoFields = errors.New("candidate has no fields")

// Normalizer turns candidates into canonical inventory items.
type Normalizer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize converts each candidate independently. A candidate that cannot be
// converted is skipped and reported as an ItemError.
func (n *Normalizer) Normalize(cands []entity.CandidateEntity, source string) ([]entity.InventoryItem, []error) {
	items := make([]entity.InventoryItem, 0, len(cands))
	var errs []error
	for i, c := range cands {
		item, err := Item(c, source)
		if err != nil {
			ie := common.ItemError(fmt.Sprintf("candidate %d skipped", i), err)
			n.logger.Warn("normalize.item.skipped", "index", i, "source", source, "error", err)
			errs = append(errs, ie)
			continue
		}
		items = append(items, item)
	}
	n.logger.Debug("normalize.done", "source", source, "items", len(items), "skipped", len(errs))
	return items, errs
}

// Item normalizes one candidate.
func Item(c entity.CandidateEntity, source string) (entity.InventoryItem, error) {
	if c.FieldCount() == 0 {
		return entity.InventoryItem{}, errNoFields
	}
	qty, err := parseQuantity(c.Quantity)
	if err != nil {
		return entity.InventoryItem{}, err
	}
	price, err := parsePrice(c.UnitPrice)
	if err != nil {
		return entity.InventoryItem{}, err
	}
	total, err := parsePrice(c.TotalPrice)
	if err != nil {
		return entity.InventoryItem{}, err
	}
	qty, price, total = ApplyTotals(qty, price, total)

	name := c.Name
	if name == "" {
		name = c.Description
	}

	part := PartNumber(c.PartNumber)
	sku := PartNumber(c.SKU)
	if sku == "" {
		sku = part
	}

	item := entity.InventoryItem{
		Name:           Name(name),
		PartNumber:     part,
		SKU:            sku,
		Quantity:       qty,
		Unit:           Unit(c.Unit),
		UnitPrice:      price,
		TotalPrice:     total,
		VendorName:     Vendor(c.Vendor),
		Description:    Description(c.Description),
		Category:       Category(c.Category),
		Confidence:     confidence(c.Confidence),
		SourceDocument: source,
		RawText:        c.SourceLine,
		Fields:         maps.Clone(c.Fields),
	}
	item.Status = constants.ItemStatusIncomplete
	if item.IsComplete() {
		item.Status = constants.ItemStatusComplete
	}
	return item, nil
}

func confidence(c float64) float64 {
	switch {
	case c <= 0:
		return DefaultConfidence
	case c > 1:
		return 1
	}
	return c
}

// Renormalize runs the field rules over an already normalized item. It is a
// fixed point: Renormalize(Renormalize(i)) == Renormalize(i).
func Renormalize(i entity.InventoryItem) entity.InventoryItem {
	i.Name = Name(i.Name)
	i.PartNumber = PartNumber(i.PartNumber)
	i.SKU = PartNumber(i.SKU)
	i.Quantity = Quantity(i.Quantity)
	i.Unit = Unit(i.Unit)
	i.UnitPrice = Price(i.UnitPrice)
	i.TotalPrice = Price(i.TotalPrice)
	i.Quantity, i.UnitPrice, i.TotalPrice = ApplyTotals(i.Quantity, i.UnitPrice, i.TotalPrice)
	i.VendorName = Vendor(i.VendorName)
	i.Description = Description(i.Description)
	i.Category = Category(i.Category)
	i.Confidence = confidence(i.Confidence)
	return i
}
