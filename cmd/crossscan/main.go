package main

import (
	"github.com/crossscan/crossscan/internal/cli"
)

func main() {
	cli.Execute()
}
