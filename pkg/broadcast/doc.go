// Package broadcast provides type-safe one-to-many message fan-out.
//
//	b := broadcast.NewMemoryBroadcaster[string](10)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx) // released when ctx is cancelled
//	_ = b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"})
//
//	for msg := range sub.Receive() {
//		fmt.Println(msg.Data)
//	}
//
// Delivery never blocks the sender: a subscriber with a full buffer misses
// the message. Use it for observers that only care about the latest value.
package broadcast
