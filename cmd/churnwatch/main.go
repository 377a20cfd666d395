package main

import "github.com/ppiankov/churnwatch/internal/cli"

func main() {
	cli.Execute()
}
