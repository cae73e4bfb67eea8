package main

import "github.com/mealpoint/staffdesk/cmd/staffdesk/cmd"

func main() {
	cmd.Execute()
}
