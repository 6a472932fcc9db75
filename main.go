package main

import "finsim/cmd"

func main() {
	cmd.Execute()
}
