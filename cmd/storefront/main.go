// Command storefront runs the catering storefront API.
//
//	@title						Catering Storefront API
//	@version					1.0
//	@description				Catering packages, bookings and payment reconciliation.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

//go:generate swag init -d ../.. -g cmd/storefront/main.go -o ../../docs

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
