// Package xms provides a client for the XMS batch messaging REST API.
//
// The API sends SMS batches, manages recipient groups, exposes delivery
// reports and returns inbound (mobile originated) messages. Every call is
// scoped to a service plan and authenticated with a bearer token.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: the API facade, one method per remote operation
//   - Transport: a single reusable resty handle that executes requests
//   - Classifier: maps HTTP status codes onto the error types below
//   - Paginator: lazy, restartable iteration over list endpoints
//   - Types: batches, groups, reports and inbound messages
//
// # Usage
//
//	client, err := xms.NewClient("my-service-plan", "my-token",
//		xms.WithLogger(logger),
//		xms.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	batch, err := client.CreateBatch(ctx, &xms.TextBatch{
//		From: "12345",
//		To:   []string{"111", "222"},
//		Body: "Hi ${name}!",
//	})
//
// List operations return a Paginator and perform no I/O until iterated:
//
//	pages := client.ListBatches(xms.BatchFilter{Tags: []string{"promo"}})
//	for b, err := range pages.All(ctx) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(b.ID)
//	}
//
// # Error Handling
//
// Failures are returned as one of:
//
//   - TransportError: the HTTP exchange could not complete
//   - APIError: the request was rejected (400, 403)
//   - NotFoundError: the resource does not exist (404)
//   - UnauthorizedError: the token was rejected (401)
//   - UnexpectedResponseError: any other status code
//   - InvalidArgumentError: the request was refused before any I/O
//
// Nothing is retried. A Client is not safe for concurrent use; use one
// client per goroutine.
package xms
