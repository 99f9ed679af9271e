package main

import (
	"flag"
	"fmt"
	"log"

	"earnings-screener/internal/caselog"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dir := flag.String("dir", "", "case log directory (default: SCREENER_LOG_DIR or logs)")
	clear := flag.Bool("clear", false, "wipe the case log")
	flag.Parse()

	cases := caselog.New(*dir)

	if *clear {
		if err := cases.Clear(); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Case log cleared.")
		return
	}

	all, err := cases.ReadAll()
	if err != nil {
		log.Fatal(err)
	}
	if len(all) == 0 {
		fmt.Println("Case log is empty.")
		return
	}

	// Newest first for display; the file itself stays in append order.
	fmt.Printf("%-18s %-12s %10s %s\n", "SAVED", "SYMBOL", "PRICE", "TYPE")
	for i := len(all) - 1; i >= 0; i-- {
		c := all[i]
		fmt.Printf("%-18s %-12s %10.2f %s\n", c.Time, c.Symbol, c.Price, c.CaseType)
	}
}
