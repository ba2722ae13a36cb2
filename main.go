package main

import "github.com/BatikanHyt/ordertrack/cmd"

func main() {
	cmd.Execute()
}
