package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/blockworks-go/legacytx/internal/signatureverification"
	"github.com/blockworks-go/legacytx/internal/utils"
)

func main() {
	var data string

	// Create a new scanner to read from standard input
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Print("Type a long secret that only you know: ")

	// Use scanner to read the entire line, including spaces
	if scanner.Scan() {
		data = scanner.Text()
	}
	fmt.Print("\n")

	privKey, err := signatureverification.NewPrivateKey(utils.Hash256ToBigInt(data))
	if err != nil {
		log.Fatal().Err(err).Msg("couldn't create private key from secret")
	}

	address := privKey.Point.Address(true, true)

	fmt.Println("The testnet address that is connected to this secret is:")
	fmt.Println(address)

	fmt.Print("\n")
	fmt.Println("now go to https://coinfaucet.eu/en/btc-testnet/ and enter this address. Press 'Get bitcoins!'")
}
