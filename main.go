package main

import (
	"os"

	"blogapi/service"
)

// exit is replaced in tests.
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain runs the command named by the process arguments and exits with
// its status.
func RealMain() {
	exit(service.HandleCommand(os.Args[1:]))
}
