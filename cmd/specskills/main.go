// Command specskills validates the artifacts of a spec-driven workflow tree.
package main

func main() {
	Execute()
}
