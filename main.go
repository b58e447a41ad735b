package main

import "github.com/andrewpaige1/lingodeck-api/cmd"

func main() {
	cmd.Execute()
}
