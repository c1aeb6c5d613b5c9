package main

import "github.com/ragchat/ragchat/internal/commands"

func main() {
	commands.Execute()
}
