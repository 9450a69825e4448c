package main

import (
	"fmt"
	"runtime"
	"sort"
)

const Version = "0.1.0"

// compiledFeatures tracks build-time backends via init() registration.
var compiledFeatures []string

func printFeatures() {
	fmt.Printf("Handmade platform loop %s\n", Version)
	fmt.Printf("  Go version: %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
	fmt.Println("Compiled features:")

	sort.Strings(compiledFeatures)
	for _, f := range compiledFeatures {
		fmt.Printf("  %s\n", f)
	}
	if len(compiledFeatures) == 0 {
		fmt.Println("  (none)")
	}
}
