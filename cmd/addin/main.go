// Command addin inspects and drives native add-in classes: list them, call
// their methods from the shell or an interactive TUI, and run WebAssembly
// guests against them.
package main

func main() {
	Execute()
}
