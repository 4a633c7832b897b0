// Command avrstk programs AVR targets over a serial link using the
// STK500v1 bootloader protocol.
package main

import "os"

func main() {
	os.Exit(run())
}
