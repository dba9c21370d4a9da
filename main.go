package main

import "blinkx/cmd"

func main() {
	cmd.Execute()
}
