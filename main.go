package main

import "github.com/vietdv277/appsctl/cmd"

func main() {
	cmd.Execute()
}
