package main

import "github.com/redjax/notedash/cmd"

func main() {
	cmd.Execute()
}
