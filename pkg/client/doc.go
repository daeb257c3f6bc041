// Package client is a Go client for the mathdocs HTTP API.
//
//	c, _ := client.New("http://localhost:3000", client.WithAPIKey(os.Getenv("MATHDOCS_API_KEY")))
//	up, _ := c.UploadFile(ctx, "lecture-01.docx")
//	res, _ := c.Search(ctx, "微积分", 5)
//	for _, hit := range res.Hits {
//	    fmt.Println(hit.ID, hit.Score)
//	}
//
// Errors returned by the server are *APIError values; a missing document
// matches ErrNotFound with errors.Is.
package client
