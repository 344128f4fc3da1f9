package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
)

// Generates a random hex secret for JWT_SECRET or NOTIFY_WEBHOOK_SECRET.
// Usage: gensecret [bytes]
func main() {
	size := 32
	if len(os.Args) > 1 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n < 16 {
			fmt.Println("Usage: gensecret [bytes >= 16]")
			os.Exit(1)
		}
		size = n
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Println(hex.EncodeToString(buf))
}
