package main

import "carvebench/cmd"

func main() {
	cmd.Execute()
}
