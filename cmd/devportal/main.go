package main

import (
	"github.com/mkelsey/devportal/internal/cli"
)

func main() {
	cli.Execute()
}
