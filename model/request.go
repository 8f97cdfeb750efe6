package model

import "github.com/shopspring/decimal"

// CreateAccountRequest defines the payload for opening a new account.
// PIN length is enforced by the ledger policy so that a short PIN surfaces
// as the WeakPin domain error rather than a generic validation failure.
type CreateAccountRequest struct {
	Type           string          `json:"account_type" validate:"required"`
	HolderName     string          `json:"holder_name" validate:"required,min=1,max=100"`
	Pin            string          `json:"pin" validate:"required"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`

	// Variant parameters; zero values fall back to ledger defaults.
	InterestRate   decimal.Decimal `json:"interest_rate"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
	LockPeriodDays int             `json:"lock_period_days" validate:"omitempty,min=0"`
}

// AmountRequest is the shared payload for deposits.
type AmountRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description" validate:"max=200"`
}

// WithdrawRequest adds PIN authorization to an amount.
type WithdrawRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Pin         string          `json:"pin" validate:"required"`
	Description string          `json:"description" validate:"max=200"`
}

// TransferRequest defines the payload for moving money between two accounts.
// The source account comes from the URL-independent body because a transfer
// is not a sub-resource of either account.
type TransferRequest struct {
	FromAccount string          `json:"from_account" validate:"required"`
	ToAccount   string          `json:"to_account" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Pin         string          `json:"pin" validate:"required"`
	Description string          `json:"description" validate:"max=200"`
}

// ChangePinRequest defines the payload for rotating an account PIN.
type ChangePinRequest struct {
	OldPin string `json:"old_pin" validate:"required"`
	NewPin string `json:"new_pin" validate:"required"`
}

// OperatorTokenRequest exchanges the configured admin API key for a JWT.
type OperatorTokenRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}
