package main

import (
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"group_project_service/internal/application"
)

var appVersion = "v0.0.0"

func main() {
	if err := application.New(appVersion).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
