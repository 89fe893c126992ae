package main

import (
	"mutalign/internal/app"
	"mutalign/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
