package main

import "bimrag/internal/cli"

func main() {
	cli.Execute()
}
