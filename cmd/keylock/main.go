package main

import "github.com/circuitsec/keylock/cmd/keylock/cmd"

func main() {
	cmd.Execute()
}
