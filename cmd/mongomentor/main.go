package main

import "github.com/diogo/mongomentor/internal/commands"

func main() {
	commands.Execute()
}
