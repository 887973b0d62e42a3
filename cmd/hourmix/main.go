package main

import "github.com/forPelevin/hourmix/internal/cli"

func main() {
	cli.Main()
}
