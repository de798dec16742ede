package main

import "github.com/frahmantamala/schedule-management/cmd"

func main() {
	cmd.Execute()
}
