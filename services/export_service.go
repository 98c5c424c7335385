// services/export_service.go
package services

import (
	"bytes"
	"fmt"
	"time"

	"salonx-backend/models"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// BillPDF renders a bill as a printable invoice.
func (s *ExportService) BillPDF(salonID, billID uuid.UUID) ([]byte, string, error) {
	var bill models.Bill
	if err := s.db.Preload("Items").
		Where("salon_id = ? AND id = ?", salonID, billID).
		First(&bill).Error; err != nil {
		return nil, "", err
	}

	var salon models.Salon
	if err := s.db.First(&salon, "id = ?", salonID).Error; err != nil {
		return nil, "", err
	}

	var customer models.Customer
	s.db.First(&customer, "id = ?", bill.CustomerID)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, salon.Name)
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, salon.Address)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Invoice "+bill.InvoiceNumber)
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Date: "+bill.BillDate.Format("02 Jan 2006"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Customer: "+customer.Name)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range bill.Items {
		pdf.CellFormat(90, 7, item.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.TotalPrice), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	writeTotal := func(label string, amount float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(145, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", amount), "", 1, "R", false, 0, "")
	}
	writeTotal("Subtotal", bill.Subtotal, false)
	if bill.Discount > 0 {
		writeTotal("Discount", -bill.Discount, false)
	}
	if bill.Tax > 0 {
		writeTotal(fmt.Sprintf("Tax (%.1f%%)", bill.Tax), bill.Subtotal*bill.Tax/100, false)
	}
	writeTotal("Total", bill.Total, true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := bill.InvoiceNumber + ".pdf"
	return buf.Bytes(), filename, nil
}

// BillsXLSX exports all bills in a date range as a spreadsheet.
func (s *ExportService) BillsXLSX(salonID uuid.UUID, from, to time.Time) ([]byte, string, error) {
	var bills []models.Bill
	if err := s.db.Preload("Items").
		Where("salon_id = ? AND bill_date >= ? AND bill_date < ?", salonID, from, to).
		Order("bill_date").
		Find(&bills).Error; err != nil {
		return nil, "", err
	}

	customerNames := map[uuid.UUID]string{}
	var customers []models.Customer
	if err := s.db.Where("salon_id = ?", salonID).Find(&customers).Error; err == nil {
		for _, c := range customers {
			customerNames[c.ID] = c.Name
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Bills"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Invoice", "Date", "Customer", "Items", "Subtotal", "Discount", "Tax %", "Total", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, bill := range bills {
		values := []interface{}{
			bill.InvoiceNumber,
			bill.BillDate.Format("2006-01-02"),
			customerNames[bill.CustomerID],
			len(bill.Items),
			bill.Subtotal,
			bill.Discount,
			bill.Tax,
			bill.Total,
			bill.PaymentStatus,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("bills-%s-%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	return buf.Bytes(), filename, nil
}
