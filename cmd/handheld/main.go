package main

import "github.com/warelog/handheld-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
