package main

import (
	"fmt"
	"os"

	_ "lion-connect-backend/docs" // Important for Swagger
)

// @title           Lion Connect API
// @version         1.0
// @description     Student and company networking backend with skill based matching.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
