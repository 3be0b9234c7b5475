// Package upload holds the file side of a dropzone submission: the File
// handle every front-end produces, the multipart encoder that turns a
// selection into one request body, and the sources that turn command line
// references into files.
//
// # Encoding
//
// Every file in the selection is appended under the same field name, in
// order, with no filtering or deduplication:
//
//	form, err := upload.Encode("file", files)
//	if err != nil {
//	    return err
//	}
//	req, _ := http.NewRequest(http.MethodPost, "/", form.Body)
//	req.Header.Set("Content-Type", form.ContentType)
//
// An empty selection is legal and produces a body holding only the closing
// boundary.
//
// # Sources
//
// A Resolver maps references to files:
//
//	r := upload.NewResolver(upload.DiskSource{}, upload.NewS3Source(client))
//	files, err := r.Resolve(ctx, []string{"a.pdf", "s3://invoices/2024/b.pdf"})
//
// Local paths go to DiskSource; s3://bucket/key goes to S3Source.
package upload
