// @title           Agency Desk API
// @version         1.0.0
// @description     Backend API for a software-services agency. Clients submit project and assist requests; admins approve, price and staff them and track payment.

// @contact.name   API Support

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /api

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"log"
	"os"
)

func main() {
	app := &App{}
	if err := newRootCmd(app).Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
