package router

import (
	"go-bank-ledger/handler"
	"net/http"
)

func NewRouter(accountHandler *handler.AccountHandler, transferHandler *handler.TransferHandler, adminHandler *handler.AdminHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	mux.Handle("POST /api/accounts", handler.ErrorHandlingMiddleware(accountHandler.CreateAccount))
	mux.Handle("GET /api/accounts/{accountNumber}", handler.ErrorHandlingMiddleware(accountHandler.GetAccount))
	mux.Handle("POST /api/accounts/{accountNumber}/deposits", handler.ErrorHandlingMiddleware(accountHandler.Deposit))
	mux.Handle("POST /api/accounts/{accountNumber}/withdrawals", handler.ErrorHandlingMiddleware(accountHandler.Withdraw))
	mux.Handle("PUT /api/accounts/{accountNumber}/pin", handler.ErrorHandlingMiddleware(accountHandler.ChangePin))
	mux.Handle("GET /api/accounts/{accountNumber}/transactions", handler.ErrorHandlingMiddleware(accountHandler.ListTransactions))

	mux.Handle("POST /api/transfers", handler.ErrorHandlingMiddleware(transferHandler.CreateTransfer))

	mux.Handle("POST /api/admin/token", handler.ErrorHandlingMiddleware(adminHandler.CreateToken))
	mux.Handle("POST /api/admin/accounts/{accountNumber}/unlock",
		handler.OperatorAuthMiddleware(handler.ErrorHandlingMiddleware(adminHandler.UnlockAccount)))
	mux.Handle("POST /api/admin/accounts/{accountNumber}/interest",
		handler.OperatorAuthMiddleware(handler.ErrorHandlingMiddleware(adminHandler.AccrueInterest)))

	return mux
}
