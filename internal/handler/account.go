package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aastha-raghuvanshi/welth/internal/models"
	"github.com/aastha-raghuvanshi/welth/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountHandler serves financial account endpoints. Balances are read-only
// here: only the ledger service writes them.
type AccountHandler struct {
	DB *gorm.DB
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{DB: db}
}

type createAccountReq struct {
	Name      string `json:"name" binding:"required,max=64"`
	Type      string `json:"type" binding:"omitempty,oneof=CURRENT SAVINGS"`
	Balance   string `json:"balance"` // opening balance, decimal string
	Currency  string `json:"currency" binding:"omitempty,len=3"`
	IsDefault bool   `json:"is_default"`
}

type accountResp struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	BalanceCent int64     `json:"balance_cent"`
	Balance     string    `json:"balance"`
	Currency    string    `json:"currency"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAccountResp(a *models.Account) accountResp {
	return accountResp{
		ID:          a.ID,
		Name:        a.Name,
		Type:        a.Type,
		BalanceCent: a.BalanceCent,
		Balance:     util.FormatCents(a.BalanceCent),
		Currency:    a.Currency,
		IsDefault:   a.IsDefault,
		CreatedAt:   a.CreatedAt,
	}
}

// CreateAccount opens a new account, optionally with an opening balance.
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	var openingCent int64
	if req.Balance != "" {
		cents, err := util.ParseAmountCents(req.Balance)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid opening balance")
			return
		}
		openingCent = cents
	}

	if req.Type == "" {
		req.Type = models.AccountTypeCurrent
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	account := models.Account{
		UserID:      user.ID,
		Name:        req.Name,
		Type:        req.Type,
		BalanceCent: openingCent,
		Currency:    req.Currency,
		IsDefault:   req.IsDefault,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		// at most one default account per user
		if req.IsDefault {
			if err := tx.Model(&models.Account{}).
				Where("user_id = ?", user.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create account")
		return
	}

	util.Success(c, util.Response{
		"account": toAccountResp(&account),
	})
}

// ListAccounts returns all of the user's accounts, default first.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("is_default DESC, created_at ASC").
		Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load accounts")
		return
	}

	items := make([]accountResp, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResp(&accounts[i]))
	}

	util.Success(c, util.Response{
		"accounts": items,
	})
}

// GetAccount returns one owned account.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "record not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load account")
		}
		return
	}

	util.Success(c, util.Response{
		"account": toAccountResp(&account),
	})
}
