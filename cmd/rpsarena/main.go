package main

import "github.com/mcoot/rpsarena/internal/cli"

func main() {
	cli.Execute()
}
