// Package pdfkiwi is a client for the pdf.kiwi HTML to PDF API.
//
// Create a [Client] with your account email and API token, then convert:
//
//	c, err := pdfkiwi.New("me@example.com", "token")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pdf, err := c.Convert(ctx, "<h1>Hello</h1>", pdfkiwi.Options{"orientation": "landscape"})
//
// A Client sends one request at a time. Conversions submitted concurrently
// wait in a FIFO queue and each caller gets its own result:
//
//	job, err := c.Submit(ctx, html, nil) // err: invalid input, nothing queued
//	...
//	pdf, err := job.Wait(ctx)            // err: *pdfkiwi.ConversionError
//
// Failed conversions are reported as a [*ConversionError] carrying the API
// message, the API error code and the HTTP status.
//
// The result can be saved or sent to a browser:
//
//	save, _ := pdfkiwi.ToFile("report")          // writes report.pdf
//	send, _ := pdfkiwi.ToHTTPDownload(w, "report") // attachment; filename="report.pdf"
//
// Settings can also come from a config.yaml, see [NewFromConfig].
package pdfkiwi
