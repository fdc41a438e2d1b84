package main

import "github.com/pfrederiksen/hockey-pbp/internal/cli"

func main() {
	cli.Execute()
}
