package handler

import (
	"go-bank-ledger/common"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/service"
	"net/http"
)

// AdminHandler exposes the operator-only endpoints: token issuance, account
// unlock and savings interest accrual.
type AdminHandler struct {
	ledger *service.LedgerService
}

func NewAdminHandler(ledger *service.LedgerService) *AdminHandler {
	return &AdminHandler{ledger: ledger}
}

// CreateToken godoc
// @Summary      Issue an operator token
// @Description  Exchanges the configured admin API key for a short-lived JWT.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        credentials body model.OperatorTokenRequest true "Admin API key"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError "Invalid API key"
// @Router       /api/admin/token [post]
func (h *AdminHandler) CreateToken(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.OperatorTokenRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	token, err := service.GenerateOperatorToken(req.APIKey)
	if err != nil {
		return common.NewAppError(http.StatusUnauthorized, "Invalid API key", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
	return nil
}

// UnlockAccount godoc
// @Summary      Unlock a locked account
// @Description  Clears the lock flag and the PIN failure counter. Idempotent.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        accountNumber path string true "Account number"
// @Success      204  "Account unlocked"
// @Failure      401  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/accounts/{accountNumber}/unlock [post]
func (h *AdminHandler) UnlockAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountNumber := r.PathValue("accountNumber")

	if err := h.ledger.Unlock(r.Context(), accountNumber); err != nil {
		return ledgerError(err)
	}

	logger.Log.WithField("account_number", accountNumber).Info("Unlock request completed")
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// AccrueInterest godoc
// @Summary      Accrue interest on a savings account
// @Description  Credits balance times interest rate. No-op when the balance is not positive.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        accountNumber path string true "Account number"
// @Success      201  {object}  model.Transaction
// @Success      204  "No interest accrued"
// @Failure      400  {object}  common.AppError "Not a savings account"
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/accounts/{accountNumber}/interest [post]
func (h *AdminHandler) AccrueInterest(w http.ResponseWriter, r *http.Request) *common.AppError {
	txn, err := h.ledger.AccrueInterest(r.Context(), r.PathValue("accountNumber"))
	if err != nil {
		return ledgerError(err)
	}
	if txn == nil {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	writeJSON(w, http.StatusCreated, txn)
	return nil
}
