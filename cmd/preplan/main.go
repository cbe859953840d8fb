package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(newApp(defaultRuntime()).run(context.Background(), os.Args))
}
