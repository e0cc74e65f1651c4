package main

import "care4pets/internal/cmd"

func main() {
	cmd.Execute()
}
