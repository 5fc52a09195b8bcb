package main

import "github.com/mcoot/cricketstats-go/internal/cli"

func main() {
	cli.Execute()
}
