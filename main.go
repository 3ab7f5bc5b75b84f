package main

import "xenory/cmd"

func main() {
	cmd.Execute()
}
