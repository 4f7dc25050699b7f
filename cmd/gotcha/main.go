package main

import (
	"github.com/jordanjustice/gotcha-api/internal/cli"
)

func main() {
	cli.Execute()
}
