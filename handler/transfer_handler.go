package handler

import (
	"go-bank-ledger/common"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/service"
	"net/http"

	"github.com/sirupsen/logrus"
)

// TransferHandler holds dependencies for the transfer endpoint.
type TransferHandler struct {
	ledger *service.LedgerService
}

func NewTransferHandler(ledger *service.LedgerService) *TransferHandler {
	return &TransferHandler{ledger: ledger}
}

// CreateTransfer godoc
// @Summary      Transfer money between accounts
// @Description  Moves the amount from one account to another. The source PIN authorizes the transfer; both sides are persisted atomically.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        transfer body model.TransferRequest true "Details of the transfer"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Insufficient funds, overdraft exceeded, funds locked, invalid amount or same account"
// @Failure      401  {object}  common.AppError "PIN verification failed"
// @Failure      403  {object}  common.AppError "Source account locked"
// @Failure      404  {object}  common.AppError "Source or destination account not found"
// @Failure      503  {object}  common.AppError "Account store unavailable"
// @Router       /api/transfers [post]
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	log := logger.Log.WithFields(logrus.Fields{
		"from_account": req.FromAccount,
		"to_account":   req.ToAccount,
		"amount":       req.Amount,
	})
	log.Info("Transfer request received")

	txn, err := h.ledger.Transfer(r.Context(), req)
	if err != nil {
		return ledgerError(err)
	}

	writeJSON(w, http.StatusCreated, txn)
	return nil
}
