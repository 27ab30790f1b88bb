package main

import "github.com/oshokin/dst-clock/cmd/clock-status/cmd"

func main() {
	cmd.Execute()
}
