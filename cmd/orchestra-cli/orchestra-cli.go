package main

import (
	"github.com/orchestra-io/orchestra/cmd/orchestra-cli/app/cmd"
)

func main() {
	cmd.Execute()
}
