package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aastha-raghuvanshi/welth/internal/ai"
	"github.com/aastha-raghuvanshi/welth/internal/ledger"
	"github.com/aastha-raghuvanshi/welth/internal/models"
	"github.com/aastha-raghuvanshi/welth/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxReceiptBytes caps uploaded receipt images at 8 MB.
const maxReceiptBytes = 8 << 20

// TransactionHandler serves the ledger endpoints and the receipt scan shim.
type TransactionHandler struct {
	Ledger  *ledger.Service
	Scanner *ai.Scanner // nil when scanning is not configured
	Log     zerolog.Logger
}

func NewTransactionHandler(svc *ledger.Service, scanner *ai.Scanner, log zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{
		Ledger:  svc,
		Scanner: scanner,
		Log:     log,
	}
}

// ---------- request/response shapes ----------

type transactionReq struct {
	AccountID         uint   `json:"account_id" binding:"required"`
	Type              string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount            string `json:"amount" binding:"required"`
	Date              string `json:"date" binding:"required"`
	Category          string `json:"category" binding:"required,max=32"`
	Description       string `json:"description" binding:"max=255"`
	IsRecurring       bool   `json:"is_recurring"`
	RecurringInterval string `json:"recurring_interval" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
}

type transactionResp struct {
	ID                uint         `json:"id"`
	AccountID         uint         `json:"account_id"`
	Type              string       `json:"type"`
	AmountCent        int64        `json:"amount_cent"`
	Amount            string       `json:"amount"`
	Date              time.Time    `json:"date"`
	Category          string       `json:"category"`
	Description       string       `json:"description"`
	IsRecurring       bool         `json:"is_recurring"`
	RecurringInterval string       `json:"recurring_interval,omitempty"`
	NextRecurringDate *time.Time   `json:"next_recurring_date,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	Account           *accountResp `json:"account,omitempty"`
}

func toTransactionResp(t *models.Transaction, withAccount bool) transactionResp {
	resp := transactionResp{
		ID:                t.ID,
		AccountID:         t.AccountID,
		Type:              t.Type,
		AmountCent:        t.AmountCent,
		Amount:            util.FormatCents(t.AmountCent),
		Date:              t.Date,
		Category:          t.Category,
		Description:       t.Description,
		IsRecurring:       t.IsRecurring,
		RecurringInterval: t.RecurringInterval,
		NextRecurringDate: t.NextRecurringDate,
		CreatedAt:         t.CreatedAt,
	}
	if withAccount && t.Account.ID != 0 {
		a := toAccountResp(&t.Account)
		resp.Account = &a
	}
	return resp
}

// toInput converts a bound request into a service input.
func (h *TransactionHandler) toInput(c *gin.Context, req transactionReq) (ledger.TransactionInput, bool) {
	amountCent, err := util.ParseAmountCents(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "please enter a valid amount")
		return ledger.TransactionInput{}, false
	}

	date, ok := parseDate(req.Date)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date")
		return ledger.TransactionInput{}, false
	}

	return ledger.TransactionInput{
		AccountID:         req.AccountID,
		Type:              req.Type,
		AmountCent:        amountCent,
		Date:              date,
		Category:          req.Category,
		Description:       req.Description,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
	}, true
}

// ---------- endpoints ----------

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	in, ok := h.toInput(c, req)
	if !ok {
		return
	}

	txn, err := h.Ledger.CreateTransaction(c.Request.Context(), user.ID, in)
	if err != nil {
		writeLedgerError(c, h.Log, "create_transaction", err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(txn, false),
	})
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	in, ok := h.toInput(c, req)
	if !ok {
		return
	}

	txn, err := h.Ledger.UpdateTransaction(c.Request.Context(), user.ID, uint(id), in)
	if err != nil {
		writeLedgerError(c, h.Log, "update_transaction", err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(txn, false),
	})
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	txn, err := h.Ledger.GetTransaction(c.Request.Context(), user.ID, uint(id))
	if err != nil {
		writeLedgerError(c, h.Log, "get_transaction", err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(txn, false),
	})
}

// ListTransactions supports equality filters via query params:
// account_id, type, category, recurring, start, end (YYYY-MM-DD).
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var f ledger.Filter

	if s := c.Query("account_id"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account_id")
			return
		}
		f.AccountID = uint(id)
	}
	if t := c.Query("type"); t == models.TransactionTypeIncome || t == models.TransactionTypeExpense {
		f.Type = t
	}
	f.Category = c.Query("category")
	if s := c.Query("recurring"); s != "" {
		recurring := s == "true" || s == "1"
		f.IsRecurring = &recurring
	}
	if s := c.Query("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start date must be YYYY-MM-DD")
			return
		}
		f.From = t
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end date must be YYYY-MM-DD")
			return
		}
		// end date is inclusive: < end+1 day
		f.To = t.Add(24 * time.Hour)
	}

	txns, err := h.Ledger.ListTransactions(c.Request.Context(), user.ID, f)
	if err != nil {
		writeLedgerError(c, h.Log, "list_transactions", err)
		return
	}

	items := make([]transactionResp, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResp(&txns[i], true))
	}

	util.Success(c, util.Response{
		"transactions": items,
		"total":        len(items),
	})
}

// ScanReceipt reads a multipart image and returns the model's best-effort
// field guesses. Nothing is stored; the client pre-fills a form with it.
func (h *TransactionHandler) ScanReceipt(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	if h.Scanner == nil {
		util.Error(c, http.StatusServiceUnavailable, util.CodeExternalErr, "receipt scanning is not available")
		return
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "receipt file is required")
		return
	}
	if fileHeader.Size > maxReceiptBytes {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "receipt image too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "could not read receipt file")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxReceiptBytes))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "could not read receipt file")
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	data, err := h.Scanner.ScanReceipt(c.Request.Context(), image, mimeType)
	if err != nil {
		h.Log.Error().Err(err).Msg("receipt scan failed")
		if errors.Is(err, ai.ErrInvalidResponse) {
			util.Error(c, http.StatusBadGateway, util.CodeExternalErr, "could not read the receipt, please fill in the details manually")
		} else {
			util.Error(c, http.StatusBadGateway, util.CodeExternalErr, "receipt scanning failed, please try again")
		}
		return
	}

	util.Success(c, util.Response{
		"receipt": gin.H{
			"amount_cent":   data.AmountCent,
			"amount":        util.FormatCents(data.AmountCent),
			"date":          data.Date,
			"description":   data.Description,
			"category":      data.Category,
			"merchant_name": data.MerchantName,
		},
	})
}
