package iocache

import (
	"fmt"

	"github.com/devpulse/devpulse/schema"
)

// PrintStoreStatus prints persistence status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Backend: %s\n", status.Backend)
	fmt.Printf("Reachable: %t\n", status.Reachable)
	if !status.Reachable {
		if status.Detail != "" {
			fmt.Printf("Detail: %s\n", status.Detail)
		}
		return
	}
	fmt.Printf("Snapshots: %d\n", status.Snapshots)
	fmt.Printf("Models: %d\n", status.Models)
}
