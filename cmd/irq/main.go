package main

import "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/cli"

func main() {
	cli.Execute()
}
