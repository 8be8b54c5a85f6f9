package main

import "github.com/mu88/SpielplanExtractor/internal/cli"

func main() {
	cli.Execute()
}
