package main

import (
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/blockworks-go/legacytx/internal/transaction"
)

func main() {
	// Define a boolean flag
	var isTestnet bool
	flag.BoolVar(&isTestnet, "testnet", false, "enable testnet mode")

	// Parse the command-line arguments
	flag.Parse()

	// Retrieve the non-flag command-line arguments
	args := flag.Args()

	// Check if at least one argument is provided
	if len(args) == 0 {
		fmt.Println("Please provide a transaction ID.")
		return
	}

	// Extract the transaction ID
	transactionID := args[0]

	tx, err := transaction.NewTxFetcher().FetchFresh(transactionID, isTestnet)
	if err != nil {
		log.Err(err).Msgf("could not fetch transaction, txid: %s", transactionID)
		return
	}

	fmt.Println(tx.String())
}
