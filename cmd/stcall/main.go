// cmd/stcall/main.go
package main

import (
	"stcall/internal/app"
	"stcall/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
