package main

import (
	"github.com/matjam/loopwall/internal/cli"
)

func main() {
	cli.Execute()
}
