// Command groqchat is a terminal chat client for the Groq completions API.
package main

import "github.com/diogo/groqchat/internal/commands"

func main() {
	commands.Execute()
}
