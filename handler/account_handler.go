package handler

import (
	"encoding/json"
	"errors"
	"go-bank-ledger/common"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/service"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

type AccountHandler struct {
	ledger *service.LedgerService
}

func NewAccountHandler(ledger *service.LedgerService) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

// ledgerError maps domain errors to HTTP status codes. Every error in the
// taxonomy is recoverable at this boundary.
func ledgerError(err error) *common.AppError {
	switch {
	case errors.Is(err, model.ErrAccountNotFound):
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, model.ErrAuthenticationFailed):
		return common.NewAppError(http.StatusUnauthorized, err.Error(), err)
	case errors.Is(err, model.ErrAccountLocked):
		return common.NewAppError(http.StatusForbidden, err.Error(), err)
	case errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrWeakPin),
		errors.Is(err, model.ErrInvalidAccountType),
		errors.Is(err, model.ErrSameAccountTransfer),
		errors.Is(err, model.ErrInsufficientFunds),
		errors.Is(err, model.ErrOverdraftExceeded),
		errors.Is(err, model.ErrFundsLocked):
		return common.NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, model.ErrStoreUnavailable):
		return common.NewAppError(http.StatusServiceUnavailable, model.ErrStoreUnavailable.Error(), err)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Could not process request", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// CreateAccount godoc
// @Summary      Open a new account
// @Description  Creates an account of the given type with an optional initial deposit. The PIN is hashed before storage.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        account body model.CreateAccountRequest true "Account details"
// @Success      201  {object}  model.Account
// @Failure      400  {object}  common.AppError "Invalid type, weak PIN or negative initial deposit"
// @Failure      503  {object}  common.AppError "Account store unavailable"
// @Router       /api/accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateAccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	log := logger.Log.WithFields(logrus.Fields{
		"account_type": req.Type,
		"holder_name":  req.HolderName,
	})
	log.Info("Create account request received")

	account, err := h.ledger.CreateAccount(r.Context(), req)
	if err != nil {
		return ledgerError(err)
	}

	writeJSON(w, http.StatusCreated, account)
	return nil
}

// GetAccount godoc
// @Summary      Show an account
// @Tags         accounts
// @Produce      json
// @Param        accountNumber path string true "Account number"
// @Success      200  {object}  model.Account
// @Failure      404  {object}  common.AppError
// @Router       /api/accounts/{accountNumber} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	account, err := h.ledger.GetAccount(r.PathValue("accountNumber"))
	if err != nil {
		return ledgerError(err)
	}
	writeJSON(w, http.StatusOK, account)
	return nil
}

// Deposit godoc
// @Summary      Deposit into an account
// @Description  Credits the account. Deposits are accepted on locked accounts.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        accountNumber path string true "Account number"
// @Param        deposit body model.AmountRequest true "Amount and description"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Non-positive amount"
// @Failure      404  {object}  common.AppError
// @Router       /api/accounts/{accountNumber}/deposits [post]
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.AmountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	txn, err := h.ledger.Deposit(r.Context(), r.PathValue("accountNumber"), req.Amount, req.Description)
	if err != nil {
		return ledgerError(err)
	}

	writeJSON(w, http.StatusCreated, txn)
	return nil
}

// Withdraw godoc
// @Summary      Withdraw from an account
// @Description  Debits the account after PIN verification; three consecutive failures lock the account.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        accountNumber path string true "Account number"
// @Param        withdrawal body model.WithdrawRequest true "Amount, PIN and description"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Invalid amount, insufficient funds, overdraft exceeded or funds locked"
// @Failure      401  {object}  common.AppError "PIN verification failed"
// @Failure      403  {object}  common.AppError "Account locked"
// @Failure      404  {object}  common.AppError
// @Router       /api/accounts/{accountNumber}/withdrawals [post]
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.WithdrawRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	txn, err := h.ledger.Withdraw(r.Context(), r.PathValue("accountNumber"), req.Amount, req.Pin, req.Description)
	if err != nil {
		return ledgerError(err)
	}

	writeJSON(w, http.StatusCreated, txn)
	return nil
}

// ChangePin godoc
// @Summary      Change an account PIN
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        accountNumber path string true "Account number"
// @Param        pin body model.ChangePinRequest true "Old and new PIN"
// @Success      204  "PIN changed"
// @Failure      400  {object}  common.AppError "New PIN too short"
// @Failure      401  {object}  common.AppError "Old PIN verification failed"
// @Router       /api/accounts/{accountNumber}/pin [put]
func (h *AccountHandler) ChangePin(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ChangePinRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.ledger.ChangePin(r.Context(), r.PathValue("accountNumber"), req.OldPin, req.NewPin); err != nil {
		return ledgerError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ListTransactions godoc
// @Summary      List account transaction history
// @Description  Returns the most recent transactions, newest first.
// @Tags         accounts
// @Produce      json
// @Param        accountNumber path string true "Account number"
// @Param        limit query int false "Maximum number of transactions (default 50)"
// @Success      200  {array}   model.Transaction
// @Failure      404  {object}  common.AppError
// @Router       /api/accounts/{accountNumber}/transactions [get]
func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return common.NewAppError(http.StatusBadRequest, "Invalid limit query parameter", err)
		}
		limit = parsed
	}

	txns, err := h.ledger.TransactionHistory(r.Context(), r.PathValue("accountNumber"), limit)
	if err != nil {
		return ledgerError(err)
	}
	if txns == nil {
		txns = []*model.Transaction{}
	}

	writeJSON(w, http.StatusOK, txns)
	return nil
}
