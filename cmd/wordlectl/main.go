package main

import "github.com/School-of-Solana/program-rishipunna/internal/cli"

func main() {
	cli.Execute()
}
