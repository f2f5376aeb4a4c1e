// cmd/renovrisk/main.go
package main

import (
	"renovrisk/internal/app"
	"renovrisk/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
