package main

import "github.com/specscribe/core/cmd"

func main() {
	cmd.Execute()
}
