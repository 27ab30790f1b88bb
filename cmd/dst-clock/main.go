package main

import "github.com/oshokin/dst-clock/cmd/dst-clock/cmd"

func main() {
	cmd.Execute()
}
