package main

import "updatebin/cmd"

func main() {
	cmd.Execute()
}
