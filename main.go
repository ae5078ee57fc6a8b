package main

import "github.com/alexiusacademia/solarrail/cmd"

func main() {
	cmd.Execute()
}
