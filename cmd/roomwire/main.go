// Package main starts the roomwire demo client.
package main

import "flag"

// main is the entrypoint for the roomwire client.
func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	if err := run(*debug); err != nil {
		logFatal(err)
	}
}
