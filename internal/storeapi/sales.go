package storeapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/talkincode/pedeai/internal/checkout"
	"github.com/talkincode/pedeai/internal/domain"
	"github.com/talkincode/pedeai/internal/events"
	"github.com/talkincode/pedeai/internal/webserver"
	"github.com/talkincode/pedeai/internal/whatsapp"
)

func registerSaleRoutes() {
	webserver.ApiPOST("/sales", postSale)

	webserver.AdminGET("/sales", listSales)
	webserver.AdminGET("/sales/stats", getSaleStats)
	webserver.AdminGET("/sales/export/csv", exportSalesCsv)
	webserver.AdminGET("/sales/export/xlsx", exportSalesXlsx)
}

type salePayload struct {
	Address string              `json:"address"`
	Payment checkout.Payment    `json:"payment"`
	Items   []checkout.SaleLine `json:"items"`
}

// postSale registers an order. The per-session checkout flow is driven
// through its states here; a downstream failure leaves it failed so the
// next attempt retries from payment selection with data intact.
func postSale(c echo.Context) error {
	var payload salePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse sale", err.Error())
	}

	a := GetApp(c)
	sessionID := GetSessionID(c)

	flow := a.Flows().Get(sessionID)
	switch flow.State() {
	case checkout.StateIdle:
		if err := flow.Begin(); err != nil {
			return fail(c, http.StatusConflict, "FLOW_ERROR", "Checkout cannot start", err.Error())
		}
	case checkout.StateFailed:
		if err := flow.Retry(); err != nil {
			return fail(c, http.StatusConflict, "FLOW_ERROR", "Checkout cannot retry", err.Error())
		}
	}

	if err := flow.SetAddress(payload.Address); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ADDRESS", "Invalid delivery address", err.Error())
	}
	track(c, events.EventFilledAddress, map[string]interface{}{"address_len": len(payload.Address)})

	if err := flow.SetPayment(payload.Payment); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_PAYMENT", "Invalid payment method", err.Error())
	}
	if err := flow.Submit(); err != nil {
		return fail(c, http.StatusConflict, "FLOW_ERROR", "Checkout not ready to submit", err.Error())
	}

	sale, err := a.Sales().RegisterSale(c.Request().Context(), checkout.SaleRequest{
		SessionID: sessionID,
		Address:   payload.Address,
		Payment:   payload.Payment,
		Items:     payload.Items,
	})
	if err != nil {
		_ = flow.Fail()
		var verr *checkout.ValidationError
		if ok := asValidationError(err, &verr); ok {
			return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Sale rejected", verr.Fields)
		}
		return fail(c, http.StatusInternalServerError, "SALE_ERROR", "Failed to register sale", err.Error())
	}
	if err := flow.Complete(); err != nil {
		zap.L().Warn("flow completion failed", zap.Error(err))
	}

	// order accepted: clear the cart and build the WhatsApp hand-off
	currentCart := a.CartStore().Get(sessionID)
	a.CartStore().Clear(sessionID)

	track(c, events.EventRegisterSale, map[string]interface{}{
		"sale_id": fmt.Sprintf("%d", sale.ID),
		"total":   sale.Total,
	})

	response := map[string]interface{}{"sale": sale}

	general, err := a.CmsClient().GetGeneral(c.Request().Context())
	if err != nil {
		zap.L().Warn("general config fetch failed, skipping whatsapp hand-off", zap.Error(err))
		return created(c, response)
	}

	renderer, err := checkout.NewMessageRenderer(general.SaleMessageTemplate)
	if err != nil {
		zap.L().Warn("message template invalid, skipping whatsapp hand-off", zap.Error(err))
		return created(c, response)
	}
	message, err := renderer.Render(currentCart, time.Now())
	if err != nil {
		zap.L().Warn("message render failed, skipping whatsapp hand-off", zap.Error(err))
		return created(c, response)
	}

	response["whatsapp_message"] = message
	response["whatsapp_link"] = checkout.WhatsAppLink(general.PhoneNumber, message)

	// direct device hand-off when a paired device is available
	if svc := whatsapp.Get(); svc != nil && svc.Paired() {
		if err := svc.SendText(c.Request().Context(), general.PhoneNumber, message); err != nil {
			zap.L().Warn("whatsapp direct send failed", zap.Error(err))
		} else {
			response["whatsapp_sent"] = true
		}
	}

	return created(c, response)
}

func asValidationError(err error, target **checkout.ValidationError) bool {
	v, ok := err.(*checkout.ValidationError)
	if ok {
		*target = v
	}
	return ok
}

func parseDateRange(c echo.Context) (start, end time.Time, err error) {
	if v := strings.TrimSpace(c.QueryParam("start")); v != "" {
		start, err = dateparse.ParseLocal(v)
		if err != nil {
			return start, end, fmt.Errorf("invalid start date %q", v)
		}
	}
	if v := strings.TrimSpace(c.QueryParam("end")); v != "" {
		end, err = dateparse.ParseLocal(v)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date %q", v)
		}
	}
	return start, end, nil
}

func listSales(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Invalid date range", err.Error())
	}
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Sale{})
	if !start.IsZero() {
		db = db.Where("created_at >= ?", start)
	}
	if !end.IsZero() {
		db = db.Where("created_at <= ?", end)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}

	var rows []domain.Sale
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

// getSaleStats summarizes the filtered sales: count, revenue, average and
// median ticket.
func getSaleStats(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Invalid date range", err.Error())
	}

	db := GetDB(c).Model(&domain.Sale{})
	if !start.IsZero() {
		db = db.Where("created_at >= ?", start)
	}
	if !end.IsZero() {
		db = db.Where("created_at <= ?", end)
	}

	var rows []domain.Sale
	if err := db.Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}

	totals := make([]float64, 0, len(rows))
	var revenue float64
	for _, s := range rows {
		totals = append(totals, s.Total)
		revenue += s.Total
	}

	var avg, median float64
	if len(totals) > 0 {
		avg, _ = stats.Mean(totals)
		median, _ = stats.Median(totals)
	}

	return ok(c, map[string]interface{}{
		"count":         len(rows),
		"revenue":       revenue,
		"avg_ticket":    avg,
		"median_ticket": median,
	})
}

type saleCsvRow struct {
	ID        int64   `csv:"id"`
	CreatedAt string  `csv:"created_at"`
	Address   string  `csv:"address"`
	Payment   string  `csv:"payment"`
	Total     float64 `csv:"total"`
	Status    string  `csv:"status"`
}

func fetchSalesForExport(c echo.Context) ([]domain.Sale, error) {
	start, end, err := parseDateRange(c)
	if err != nil {
		return nil, err
	}
	db := GetDB(c).Model(&domain.Sale{})
	if !start.IsZero() {
		db = db.Where("created_at >= ?", start)
	}
	if !end.IsZero() {
		db = db.Where("created_at <= ?", end)
	}
	var rows []domain.Sale
	if err := db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func exportSalesCsv(c echo.Context) error {
	rows, err := fetchSalesForExport(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export sales", err.Error())
	}

	csvRows := make([]saleCsvRow, 0, len(rows))
	for _, s := range rows {
		csvRows = append(csvRows, saleCsvRow{
			ID:        s.ID,
			CreatedAt: s.CreatedAt.Format(time.RFC3339),
			Address:   s.Address,
			Payment:   s.PaymentName,
			Total:     s.Total,
			Status:    s.Status,
		})
	}

	data, err := gocsv.MarshalString(&csvRows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to render csv", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sales.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}

func exportSalesXlsx(c echo.Context) error {
	rows, err := fetchSalesForExport(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export sales", err.Error())
	}

	file := excelize.NewFile()
	sheet := "Sheet1"
	headers := []string{"ID", "Data", "Endereço", "Pagamento", "Total", "Status"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		file.SetCellValue(sheet, cell, h)
	}
	for i, s := range rows {
		rowNum := i + 2
		file.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), s.ID)
		file.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), s.CreatedAt.Format(time.RFC3339))
		file.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), s.Address)
		file.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), s.PaymentName)
		file.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), s.Total)
		file.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), s.Status)
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to render xlsx", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sales.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
