// Package contactapi is the HTTP client for the contacts REST API.
//
// The API is a JSON collection at {base}{path}, /contacts by default:
//
//	GET    /contacts        list every contact
//	POST   /contacts        create one
//	PUT    /contacts/{id}   replace one
//	DELETE /contacts/{id}   remove one
//
// Calls take a context and are never retried; the caller decides what to do
// with a failure. Every failure is an *APIError whose Type says what went
// wrong. ShortMessage renders it for an inline status line and Hint gives
// troubleshooting steps for the command line.
//
//	client := contactapi.NewClient("http://localhost:8080")
//	contacts, err := client.FetchAll(ctx)
//	if err != nil {
//	    fmt.Println(contactapi.ShortMessage(err))
//	}
package contactapi
