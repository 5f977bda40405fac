package main

import "go-esg-platform/cmd/ecoctl/cmd"

func main() {
	cmd.Execute()
}
