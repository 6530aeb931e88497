package main

import (
	"fmt"
	"os"

	"portscan/api"
	"portscan/cli"
	_ "portscan/docs"
)

// @title                      Portscan API
// @version                    1.0
// @description                REST API for the portscan TCP port scanner. Submit scan tasks and poll for progress and results.
// @BasePath                   /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in                         header
// @name                       Authorization
func main() {
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		if err := api.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	os.Exit(cli.Run(os.Args[1:]))
}
