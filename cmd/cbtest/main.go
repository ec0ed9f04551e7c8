package main

import "github.com/ashishtz/carbon-bear-xrpl/cmd/cbtest/app"

func main() {
	app.Execute()
}
