package main

import "github.com/KostasZigo/sit/cmd"

func main() {
	cmd.Execute()
}
