package main

import "github.com/Bitlatte/doc-comments/cmd"

func main() {
	cmd.Execute()
}
