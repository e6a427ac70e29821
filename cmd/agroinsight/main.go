package main

import "github.com/andrescamacho/agroinsight-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
