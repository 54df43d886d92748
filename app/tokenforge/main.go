// This program is a console front-end for issuing SPL token transactions:
// creating mints, minting, transferring, burning, freezing accounts,
// managing authorities and maintaining on-chain metadata.
package main

import (
	"fmt"
	"os"

	"github.com/tokenforge/tokenforge/app/tokenforge/cmd"
	"github.com/tokenforge/tokenforge/foundation/logger"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("TOKENFORGE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cmd.Execute(build, log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}
