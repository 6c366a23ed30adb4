package main

import "orderbook-core/cmd/order-placer/cmd"

func main() {
	cmd.Execute()
}
