// Command bazi computes charts, solar terms and lunar labels from the
// command line.
package main

import "github.com/zapponejosh/bazi-api/internal/cli"

func main() {
	cli.Execute()
}
