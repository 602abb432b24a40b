package main

import "promptpilot/cmd"

func main() {
	cmd.Execute()
}
