package main

import "github.com/berth-dev/elicit/internal/cli"

func main() {
	cli.Execute()
}
