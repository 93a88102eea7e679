package main

import "abapseg/internal/cli"

func main() {
	cli.Execute()
}
