package main

import "animedrop/cmd/cli/command"

func main() {
	command.Execute()
}
