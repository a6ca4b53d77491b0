package main

import (
	"context"
	"os"
)

// Version is set at build time.
var version = "dev"

// @title taskboard API
// @version 1.0
// @description Users, tasks and comments with JWT authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cmd := NewRootCmd()
	cmd.Version = version

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
