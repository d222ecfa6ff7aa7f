/*
Copyright © 2025 Greg Griffin <greg.griffin2@gmail.com>
*/
package main

import "github.com/gregriff/ask/cmd"

func main() {
	cmd.Execute()
}
