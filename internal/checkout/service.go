package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/talkincode/pedeai/internal/cms"
	"github.com/talkincode/pedeai/internal/domain"
	"github.com/talkincode/pedeai/pkg/common"
	"github.com/talkincode/pedeai/pkg/metrics"
)

// SaleLine is one requested order line.
type SaleLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// SaleRequest is a complete order submission.
type SaleRequest struct {
	SessionID string     `json:"-"`
	Address   string     `json:"address"`
	Payment   Payment    `json:"payment"`
	Items     []SaleLine `json:"items"`
}

// FieldError points a validation failure at the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries all field errors of a rejected submission.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "checkout: invalid sale: " + strings.Join(parts, "; ")
}

// ProductResolver resolves catalog products for validation and price
// snapshots.
type ProductResolver interface {
	Get(id int64) (domain.Product, bool)
}

// Submitter forwards the sale upstream.
type Submitter interface {
	CreateSale(ctx context.Context, sale cms.SalePayload) error
}

// Notifier is told about registered sales, best effort.
type Notifier interface {
	NotifySale(sale domain.Sale, items []domain.SaleItem)
}

// Service registers sales: validates against the catalog, snapshots unit
// prices, persists locally and forwards to the CMS. There is no automatic
// retry; a forwarding failure surfaces to the caller with the local record
// marked failed.
type Service struct {
	db       *gorm.DB
	catalog  ProductResolver
	submit   Submitter
	notifier Notifier
}

func NewService(db *gorm.DB, catalog ProductResolver, submit Submitter, notifier Notifier) *Service {
	return &Service{db: db, catalog: catalog, submit: submit, notifier: notifier}
}

func (s *Service) validate(req SaleRequest) ([]domain.SaleItem, *ValidationError) {
	verr := &ValidationError{}
	if strings.TrimSpace(req.Address) == "" {
		verr.Fields = append(verr.Fields, FieldError{Field: "address", Message: "obrigatório"})
	}
	if err := req.Payment.Validate(); err != nil {
		verr.Fields = append(verr.Fields, FieldError{Field: "payment", Message: err.Error()})
	}
	if len(req.Items) == 0 {
		verr.Fields = append(verr.Fields, FieldError{Field: "items", Message: "obrigatório"})
	}

	items := make([]domain.SaleItem, 0, len(req.Items))
	for i, line := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		if line.ProductID <= 0 {
			verr.Fields = append(verr.Fields, FieldError{Field: field + ".product_id", Message: "inválido"})
			continue
		}
		if line.Quantity <= 0 {
			verr.Fields = append(verr.Fields, FieldError{Field: field + ".quantity", Message: "inválido"})
			continue
		}
		product, ok := s.catalog.Get(line.ProductID)
		if !ok {
			verr.Fields = append(verr.Fields, FieldError{Field: field + ".product_id", Message: "produto desconhecido"})
			continue
		}
		items = append(items, domain.SaleItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return items, nil
}

// RegisterSale validates, records and forwards an order. On validation
// failure it returns *ValidationError and writes nothing.
func (s *Service) RegisterSale(ctx context.Context, req SaleRequest) (domain.Sale, error) {
	items, verr := s.validate(req)
	if verr != nil {
		return domain.Sale{}, verr
	}

	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}

	now := time.Now()
	sale := domain.Sale{
		ID:          common.UUIDint64(),
		SessionID:   req.SessionID,
		Address:     req.Address,
		PaymentType: string(req.Payment.Type),
		PaymentName: req.Payment.Name(),
		PaymentNote: req.Payment.AdditionalInfo,
		Total:       total,
		Status:      domain.SaleStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i := range items {
		items[i].ID = common.UUIDint64()
		items[i].SaleID = sale.ID
		items[i].CreatedAt = now
	}

	if s.db != nil {
		if err := s.db.Create(&sale).Error; err != nil {
			return domain.Sale{}, err
		}
		if err := s.db.Create(&items).Error; err != nil {
			return domain.Sale{}, err
		}
	}

	payload := cms.SalePayload{
		Address:       req.Address,
		PaymentMethod: req.Payment.Label(),
		Total:         total,
		Items:         make([]cms.SaleItemPayload, 0, len(items)),
	}
	for _, item := range items {
		payload.Items = append(payload.Items, cms.SaleItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if err := s.submit.CreateSale(ctx, payload); err != nil {
		s.setStatus(sale.ID, domain.SaleStatusFailed, err.Error())
		return domain.Sale{}, err
	}
	s.setStatus(sale.ID, domain.SaleStatusForwarded, "")
	sale.Status = domain.SaleStatusForwarded

	metrics.RecordCounter(metrics.MetricSalesCount)
	metrics.RecordValue(metrics.MetricSalesTotal, total)

	if s.notifier != nil {
		go s.notifier.NotifySale(sale, items)
	}
	return sale, nil
}

func (s *Service) setStatus(saleID int64, status, remark string) {
	if s.db == nil {
		return
	}
	err := s.db.Model(&domain.Sale{}).Where("id = ?", saleID).Updates(map[string]interface{}{
		"status":     status,
		"remark":     remark,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		zap.L().Error("sale status update failed", zap.Int64("sale_id", saleID), zap.Error(err))
	}
}
