package main

import (
	"github.com/mvp-joe/editor-context/internal/cli"
)

func main() {
	cli.Execute()
}
