package main

import "github.com/CodMac/go-treesitter-impl-merger/cli"

func main() {
	cli.Execute()
}
