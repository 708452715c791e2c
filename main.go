package main

import "github.com/fakeyudi/recap/cmd"

func main() {
	cmd.Execute()
}
