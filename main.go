package main

import "maestro-dashboard/cmd"

func main() {
	cmd.Execute()
}
