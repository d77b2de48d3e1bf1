// Package main is the entry point for the authctl admin binary.
package main

import (
	"os"

	"github.com/Yet-Another-Check-In-System/auth-ms/pkg/authctl"
)

func main() {
	os.Exit(authctl.Execute())
}
