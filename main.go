package main

import "github.com/notargets/dolfin/cmd"

func main() {
	cmd.Execute()
}
