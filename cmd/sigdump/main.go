package main

import "sigdump/internal/cli"

func main() {
	cli.Execute()
}
