package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/aastha-raghuvanshi/welth/internal/models"
	"github.com/aastha-raghuvanshi/welth/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler streams the user's transactions as CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeaders = []string{"Type", "Category", "Amount", "Description", "Date", "Account"}

func (h *ExportHandler) loadTransactions(c *gin.Context) ([]models.Transaction, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	var txns []models.Transaction
	if err := h.DB.Preload("Account").
		Where("user_id = ?", user.ID).
		Order("date DESC, id DESC").
		Find(&txns).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return nil, false
	}
	return txns, true
}

// ExportCSV writes the transaction list as a CSV attachment.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	txns, ok := h.loadTransactions(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)

	for _, t := range txns {
		writer.Write([]string{
			t.Type,
			t.Category,
			util.FormatCents(t.AmountCent),
			t.Description,
			t.Date.Format("2006-01-02"),
			t.Account.Name,
		})
	}
}

// ExportXLSX writes the transaction list as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	txns, ok := h.loadTransactions(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx, t := range txns {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), util.FormatCents(t.AmountCent))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), t.Account.Name)
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 15)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 15)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
