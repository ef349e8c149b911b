// Command admin-apikey mints a static admin API key and its bcrypt hash.
// The key goes to the machine caller (order service, POS integration); the
// hash goes into ADMIN_API_KEY_HASH in the server environment.
package main

import (
	"fmt"
	"log"

	"dairy-ledger.backend/pkg/crypto"
)

func main() {
	key, err := crypto.GenerateAPIKey()
	if err != nil {
		log.Fatalf("failed to generate api key: %v", err)
	}

	hash, err := crypto.HashKey(key)
	if err != nil {
		log.Fatalf("failed to hash api key: %v", err)
	}

	fmt.Println("Admin API key (give to the caller, shown once):")
	fmt.Println(key)
	fmt.Println()
	fmt.Println("ADMIN_API_KEY_HASH (put in the server environment):")
	fmt.Println(hash)
}
