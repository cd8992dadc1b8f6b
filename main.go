package main

import "github.com/jmehdipour/odata-gateway/cmd"

func main() {
	cmd.Execute()
}
