// Command hearth runs the home assistant dialogue controller over HTTP, MCP or an interactive chat.
package main

func main() {
	Execute()
}
