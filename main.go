// main.go
package main

import "github.com/anmicius0/rule-bulk-actions/internal/cli"

func main() {
	cli.Execute()
}
