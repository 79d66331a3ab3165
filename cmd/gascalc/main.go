// Command gascalc computes the fuel cost of a trip from the command line.
//
//	gascalc --price 160 --eff 16 --seg km=80,people=2
//	gascalc --price 160 --eff 16 --seg start=12000,end=12045.5 --seg km=30,off --share
//	gascalc --state ./trip.json --seg km=12,date=05/12   # append to a saved trip
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
