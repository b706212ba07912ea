// ABOUTME: Entry point for the crmdesk CLI
// ABOUTME: Terminal front end for the support-ticket CRM REST backend

package main

import (
	"fmt"
	"os"

	"github.com/crmdesk/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
