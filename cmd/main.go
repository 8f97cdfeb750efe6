// cmd/main.go
package main

import (
	"go-bank-ledger/app"
)

// @title           Bank Ledger API
// @version         1.0
// @description     Personal-banking ledger: accounts, PIN lockout and atomic transfers.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
