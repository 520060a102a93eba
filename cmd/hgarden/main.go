package main

import "github.com/mcoot/happygarden/internal/cli"

func main() {
	cli.Execute()
}
