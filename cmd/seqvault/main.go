// cmd/seqvault/main.go
package main

import (
	"seqvault/internal/app"
	"seqvault/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
