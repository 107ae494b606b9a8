package main

import "paintpro/cmd/client/cmd"

func main() {
	cmd.Execute()
}
