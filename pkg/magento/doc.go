// Package magento is the public API of the Magento 2 REST client. It
// defines the session configuration and interfaces, the search
// criteria builder and its typed result resolution, the resource
// hydration engine, and the typed models (orders, products,
// categories, invoices, customers, product attributes).
//
// Construct a client with the mageclient package:
//
//	client, err := mageclient.New(ctx, &magento.Config{
//		Domain:   "mystore.com",
//		Username: "admin",
//		Password: "secret",
//	})
//
// then search through the typed sub-clients:
//
//	result, err := client.Orders().ByNumber(ctx, "000000001")
//
// Sessions are safe for single-goroutine use; share a client across
// goroutines only if requests never overlap a re-authentication.
package magento
