package main

import "github.com/ashishtz/carbon-bear-xrpl/cmd/carbonbear/app"

func main() {
	app.Execute()
}
